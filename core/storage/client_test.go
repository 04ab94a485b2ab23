package storage

import (
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"ValidConfig", Config{Endpoint: "localhost:9000", AccessKey: "testkey", SecretKey: "testsecret", Bucket: "catalog", Region: "us-east-1"}},
		{"EndpointWithHTTP", Config{Endpoint: "http://localhost:9000", AccessKey: "testkey", SecretKey: "testsecret"}},
		{"EndpointWithHTTPS", Config{Endpoint: "https://s3.amazonaws.com", AccessKey: "testkey", SecretKey: "testsecret", UseSSL: true, Region: "us-east-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			assert.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestTranslate(t *testing.T) {
	missing := minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}
	assert.ErrorIs(t, translate(missing), ErrNotFound)

	denied := minio.ErrorResponse{Code: "AccessDenied"}
	err := translate(denied)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, denied, err)
}
