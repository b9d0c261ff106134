package provider

import "testing"

func TestFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		api     string
		wantErr bool
	}{
		{"default is openai-compatible", "", false},
		{"openai", APIOpenAI, false},
		{"anthropic", APIAnthropic, false},
		{"unknown", "grpc-tools", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := FromConfig(Config{ID: "p1", API: tt.api, APIKey: "k"})
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if p.ID() != "p1" {
				t.Errorf("ID = %q", p.ID())
			}
		})
	}
}
