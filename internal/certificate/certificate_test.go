package certificate

import (
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefix(t *testing.T) {
	tests := []struct {
		email string
		want  string
		err   error
	}{
		{"Arjun.N@Test.edu", "arjun.n", nil},
		{"  meera@test.edu ", "meera", nil},
		{"no-at-sign", "no-at-sign", nil},
		{"", "", ErrEmailRequired},
		{"   ", "", ErrEmailRequired},
		{"@test.edu", "", ErrInvalidEmail},
		{"../etc@test.edu", "", ErrInvalidEmail},
	}
	for _, tc := range tests {
		t.Run(tc.email, func(t *testing.T) {
			got, err := Prefix(tc.email)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStore_Open(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/arjun.n.pdf", []byte("%PDF-1.7 arjun"), 0o644))
	require.NoError(t, fsys.MkdirAll("/dir.pdf", 0o755))
	store := NewStoreFs(fsys)

	cert, err := store.Open("ARJUN.N@test.edu")
	require.NoError(t, err)
	defer cert.Close()

	assert.Equal(t, "certificate_arjun.n.pdf", cert.Filename)
	assert.Equal(t, int64(len("%PDF-1.7 arjun")), cert.Size)
	body, err := io.ReadAll(cert)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 arjun", string(body))

	_, err = store.Open("nobody@test.edu")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Open("dir@test.edu")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Open("")
	assert.ErrorIs(t, err, ErrEmailRequired)
}
