package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSandbox(t *testing.T) {
	_, err := NewSandbox("")
	assert.Error(t, err)

	dir := filepath.Join(t.TempDir(), "work", "rdo")
	s, err := NewSandbox(dir)
	require.NoError(t, err)

	info, err := os.Stat(s.Root())
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "work directory is created")
}

func TestSandboxResolve(t *testing.T) {
	s, err := NewSandbox(t.TempDir())
	require.NoError(t, err)
	root := s.Root()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"relative file", "relatorio.yaml", filepath.Join(root, "relatorio.yaml"), false},
		{"nested relative", "fotos/dia1.jpg", filepath.Join(root, "fotos", "dia1.jpg"), false},
		{"absolute inside", filepath.Join(root, "a.csv"), filepath.Join(root, "a.csv"), false},
		{"root itself", root, root, false},
		{"dot segments inside", "fotos/../a.csv", filepath.Join(root, "a.csv"), false},
		{"parent escape", "../outside.csv", "", true},
		{"absolute outside", "/etc/passwd", "", true},
		{"sibling prefix", root + "-other/a.csv", "", true},
		{"empty", "", "", true},
		{"null bytes only", "\x00", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Resolve(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSandboxRejectsSymlinkEscape(t *testing.T) {
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.csv"), []byte("x"), 0o644))

	s, err := NewSandbox(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.Symlink(outside, filepath.Join(s.Root(), "link")))

	_, err = s.Resolve("link/secret.csv")
	assert.ErrorIs(t, err, ErrOutsideWorkDirectory)

	_, err = s.Resolve("link/new.pdf")
	assert.ErrorIs(t, err, ErrOutsideWorkDirectory, "files that do not exist yet are checked through their parent")
}

func TestSandboxResolveFile(t *testing.T) {
	s, err := NewSandbox(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "efetivo.csv"), []byte("Data,Função\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(s.Root(), "fotos"), 0o755))

	got, err := s.ResolveFile("efetivo.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Root(), "efetivo.csv"), got)

	_, err = s.ResolveFile("absent.csv")
	assert.ErrorContains(t, err, "does not exist")

	_, err = s.ResolveFile("fotos")
	assert.ErrorContains(t, err, "directory")
}

func TestSandboxResolveOutput(t *testing.T) {
	s, err := NewSandbox(t.TempDir())
	require.NoError(t, err)

	got, err := s.ResolveOutput("saida/marco/RDO_12.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Root(), "saida", "marco", "RDO_12.pdf"), got)

	info, err := os.Stat(filepath.Dir(got))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = s.ResolveOutput(".")
	assert.Error(t, err)
}
