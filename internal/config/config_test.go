package config

import (
	"testing"
	"time"
)

const validYAML = `
canvas:
  base_url: https://canvas.example.edu
  token: ${CANVAS_API_TOKEN}
provider:
  api_key: ${GROQ_API_KEY}
  model: llama-3.3-70b-versatile
store:
  driver: sqlite
  data_dir: /var/lib/coursepilot
cache:
  redis_addr: localhost:6379
  ttl: 5m
gateway:
  listen: ":9000"
jobs:
  - name: warm-courses
    schedule: "@every 15m"
    action: list_courses
    args:
      enrollment_type: teacher
      enrollment_state: active
`

func TestParse(t *testing.T) {
	t.Setenv("CANVAS_API_TOKEN", "canvas-secret")
	t.Setenv("GROQ_API_KEY", "groq-secret")

	cfg, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Canvas.Token != "canvas-secret" {
		t.Errorf("token = %q, env not expanded", cfg.Canvas.Token)
	}
	if cfg.Provider.APIKey != "groq-secret" {
		t.Errorf("api_key = %q", cfg.Provider.APIKey)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.DataDir != "/var/lib/coursepilot" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Gateway.Listen != ":9000" {
		t.Errorf("listen = %q", cfg.Gateway.Listen)
	}
	if cfg.CacheTTL() != 5*time.Minute {
		t.Errorf("ttl = %v", cfg.CacheTTL())
	}
	if len(cfg.Jobs) != 1 {
		t.Fatalf("jobs = %d", len(cfg.Jobs))
	}
	job := cfg.Jobs[0]
	if job.Name != "warm-courses" || job.Action != "list_courses" {
		t.Errorf("job = %+v", job)
	}
	if job.Args["enrollment_type"] != "teacher" {
		t.Errorf("job args = %v", job.Args)
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
canvas:
  base_url: https://canvas.example.edu
  token: tok
provider:
  api_key: key
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.ID != "groq" {
		t.Errorf("provider id = %q", cfg.Provider.ID)
	}
	if cfg.Provider.Model == "" {
		t.Error("model default missing")
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("store driver = %q", cfg.Store.Driver)
	}
	if cfg.Gateway.Listen != ":8080" {
		t.Errorf("listen = %q", cfg.Gateway.Listen)
	}
	if cfg.CacheTTL() != time.Minute {
		t.Errorf("ttl default = %v", cfg.CacheTTL())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing canvas url", "canvas:\n  token: t\nprovider:\n  api_key: k\n"},
		{"missing canvas token", "canvas:\n  base_url: u\nprovider:\n  api_key: k\n"},
		{"missing api key", "canvas:\n  base_url: u\n  token: t\n"},
		{"sqlite without data_dir", "canvas:\n  base_url: u\n  token: t\nprovider:\n  api_key: k\nstore:\n  driver: sqlite\n"},
		{"postgres without dsn", "canvas:\n  base_url: u\n  token: t\nprovider:\n  api_key: k\nstore:\n  driver: postgres\n"},
		{"unknown driver", "canvas:\n  base_url: u\n  token: t\nprovider:\n  api_key: k\nstore:\n  driver: dynamodb\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestUnsetEnvLeftVisible(t *testing.T) {
	cfg, err := Parse([]byte(`
canvas:
  base_url: https://canvas.example.edu
  token: ${DOES_NOT_EXIST_VAR}
provider:
  api_key: k
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Canvas.Token != "${DOES_NOT_EXIST_VAR}" {
		t.Errorf("token = %q, unset vars should stay visible", cfg.Canvas.Token)
	}
}
