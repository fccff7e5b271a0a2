package usuario_test

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dcevallos/mercadillo/internal/usuario"
)

type mockRepository struct {
	createFunc     func(ctx context.Context, u *usuario.Usuario) (uuid.UUID, error)
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*usuario.Usuario, error)
	getByEmailFunc func(ctx context.Context, email string) (*usuario.Usuario, error)
	updateFunc     func(ctx context.Context, u *usuario.Usuario) error
}

func (m *mockRepository) Create(ctx context.Context, u *usuario.Usuario) (uuid.UUID, error) {
	return m.createFunc(ctx, u)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*usuario.Usuario, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockRepository) GetByEmail(ctx context.Context, email string) (*usuario.Usuario, error) {
	return m.getByEmailFunc(ctx, email)
}

func (m *mockRepository) Update(ctx context.Context, u *usuario.Usuario) error {
	return m.updateFunc(ctx, u)
}

func TestService_Registrar(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		password   string
		rol        usuario.Rol
		createFunc func(ctx context.Context, u *usuario.Usuario) (uuid.UUID, error)
		wantErr    bool
		wantErrIs  error
		wantRol    usuario.Rol
		wantEmail  string
	}{
		{
			name:     "empty_password",
			email:    "ana@ejemplo.com",
			password: "",
			wantErr:  true,
		},
		{
			name:     "empty_email",
			email:    "   ",
			password: "secreto123",
			wantErr:  true,
		},
		{
			name:     "duplicate_email",
			email:    "ana@ejemplo.com",
			password: "secreto123",
			createFunc: func(ctx context.Context, u *usuario.Usuario) (uuid.UUID, error) {
				return uuid.Nil, usuario.ErrEmailExists
			},
			wantErr:   true,
			wantErrIs: usuario.ErrEmailExists,
		},
		{
			name:     "unknown_role_defaults_to_cliente",
			email:    "Ana@Ejemplo.com",
			password: "secreto123",
			rol:       "SUPERUSUARIO",
			wantRol:   usuario.RolCliente,
			wantEmail: "ana@ejemplo.com",
		},
		{
			name:      "vendor_registration",
			email:     "tienda@ejemplo.com",
			password:  "secreto123",
			rol:       usuario.RolVendedor,
			wantRol:   usuario.RolVendedor,
			wantEmail: "tienda@ejemplo.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			createFunc := tt.createFunc
			if createFunc == nil {
				createFunc = func(ctx context.Context, u *usuario.Usuario) (uuid.UUID, error) {
					id := uuid.Must(uuid.NewV4())
					u.ID = id
					return id, nil
				}
			}
			svc := usuario.NewService(&mockRepository{createFunc: createFunc})

			u, err := svc.Registrar(context.Background(), &usuario.Usuario{Email: tt.email, Rol: tt.rol}, tt.password)
			if tt.wantErr {
				require.Error(t, err)
				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRol, u.Rol)
			// email is normalized and the password never stored in clear
			assert.Equal(t, tt.wantEmail, u.Email, "email should be lowercased")
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(tt.password)))
		})
	}
}

func TestService_Autenticar(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := &usuario.Usuario{
		ID:           uuid.Must(uuid.NewV4()),
		Email:        "ana@ejemplo.com",
		PasswordHash: string(hash),
		Rol:          usuario.RolCliente,
	}

	repo := &mockRepository{
		getByEmailFunc: func(ctx context.Context, email string) (*usuario.Usuario, error) {
			if email != stored.Email {
				return nil, usuario.ErrNotFound
			}
			return stored, nil
		},
	}
	svc := usuario.NewService(repo)

	t.Run("success_normalizes_email", func(t *testing.T) {
		u, err := svc.Autenticar(context.Background(), "  ANA@ejemplo.com ", "secreto123")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, u.ID)
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := svc.Autenticar(context.Background(), "ana@ejemplo.com", "otra")
		assert.ErrorIs(t, err, usuario.ErrCredencialesInvalidas)
	})

	t.Run("unknown_email", func(t *testing.T) {
		_, err := svc.Autenticar(context.Background(), "nadie@ejemplo.com", "secreto123")
		assert.ErrorIs(t, err, usuario.ErrCredencialesInvalidas)
	})
}
