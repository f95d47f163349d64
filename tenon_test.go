package tenon

import (
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/tenonkit/tenon/services"
)

func TestNew_Validation(t *testing.T) {
	storage := services.NewFakeStorage()
	provider := services.NewFakeAuthProvider()

	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "missing storage",
			config:  Config{Provider: provider, HTTP: fiber.New()},
			wantErr: ErrStorageRequired,
		},
		{
			name:    "missing provider",
			config:  Config{Storage: storage, HTTP: fiber.New()},
			wantErr: ErrProviderRequired,
		},
		{
			name:    "missing http",
			config:  Config{Storage: storage, Provider: provider},
			wantErr: ErrHTTPRequired,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := New(test.config)
			if err != test.wantErr {
				t.Errorf("New() error = %v, want %v", err, test.wantErr)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	app, err := New(Config{
		Storage:  services.NewFakeStorage(),
		Provider: services.NewFakeAuthProvider(),
		HTTP:     fiber.New(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if app.Auth == nil || app.Todos == nil || app.Sessions == nil || app.HTTP == nil {
		t.Fatal("New() should assemble every component")
	}
	if app.Guard.FailOpen {
		t.Error("guard should be closed by default")
	}
}

func TestNew_FailOpen(t *testing.T) {
	app, err := New(Config{
		Storage:  services.NewFakeStorage(),
		Provider: services.NewFakeAuthProvider(),
		HTTP:     fiber.New(),
		FailOpen: true,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !app.Guard.FailOpen {
		t.Error("guard should fail open when configured to")
	}
}
