package server_test

import (
	"testing"

	"cache-service/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	valid := server.Config{Port: "8080", GRPCAddress: ":50051", MaxMessageBytes: 1 << 30}

	tests := []struct {
		name    string
		mutate  func(*server.Config)
		wantErr bool
	}{
		{"Valid", func(*server.Config) {}, false},
		{"NoGRPCAddress", func(c *server.Config) { c.GRPCAddress = "" }, true},
		{"NoPort", func(c *server.Config) { c.Port = "" }, true},
		{"ZeroMessageSize", func(c *server.Config) { c.MaxMessageBytes = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}
