package upload

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a real multipart header the way net/http would.
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["image"]
	require.Len(t, files, 1)
	return files[0]
}

func newStore(t *testing.T) *Store {
	return NewStore(filepath.Join(t.TempDir(), "uploads"), []string{"png", "jpg", "jpeg", ".gif"})
}

func TestAllowedFile(t *testing.T) {
	s := newStore(t)

	for name, want := range map[string]bool{
		"a.png":        true,
		"a.PNG":        true,
		"archive.gif":  true,
		"photo.jpeg":   true,
		"photo.EXE":    false,
		"png":          false,
		"a.png.exe":    false,
		"a.exe.png":    true,
		"trailingdot.": false,
	} {
		assert.Equal(t, want, s.AllowedFile(name), name)
	}
}

func TestSecureFilename(t *testing.T) {
	for in, want := range map[string]string{
		"My cool movie.mov":                "My_cool_movie.mov",
		"../../../etc/passwd":              "etc_passwd",
		`C:\windows\avatar.png`:            "C_windows_avatar.png",
		"i contain cool \xfcml\xe4uts.txt": "i_contain_cool_mluts.txt",
		"ünïcödé.png":                      "unicode.png",
		"  .png":                           "png",
		"...":                              "",
		"a<b>c|d.jpg":                      "abcd.jpg",
	} {
		assert.Equal(t, want, SecureFilename(in), in)
	}
}

func TestAccept_WritesFile(t *testing.T) {
	s := newStore(t)

	res, err := s.Accept(fileHeader(t, "My Avatar.PNG", []byte("png-bytes")))
	require.NoError(t, err)
	require.True(t, res.Accepted())
	assert.Equal(t, "My_Avatar.PNG", res.Filename)

	got, err := os.ReadFile(filepath.Join(s.Dir(), "My_Avatar.PNG"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), got)
}

func TestAccept_Rejections(t *testing.T) {
	s := newStore(t)

	res, err := s.Accept(nil)
	require.NoError(t, err)
	assert.False(t, res.Accepted())
	assert.ErrorIs(t, res.Reason, ErrNoFile)

	res, err = s.Accept(fileHeader(t, "photo.EXE", []byte("MZ")))
	require.NoError(t, err)
	assert.False(t, res.Accepted())
	assert.ErrorIs(t, res.Reason, ErrExtensionNotAllowed)

	res, err = s.Accept(fileHeader(t, "  .png", []byte("x")))
	require.NoError(t, err)
	assert.ErrorIs(t, res.Reason, ErrUnsafeFilename)

	_, statErr := os.Stat(s.Dir())
	assert.True(t, os.IsNotExist(statErr), "nothing should be written for rejected uploads")
}

func TestAccept_TraversalStaysInDir(t *testing.T) {
	s := newStore(t)

	res, err := s.Accept(fileHeader(t, "../../evil.png", []byte("x")))
	require.NoError(t, err)
	require.True(t, res.Accepted())
	assert.Equal(t, "evil.png", res.Filename)
	assert.FileExists(t, filepath.Join(s.Dir(), "evil.png"))
}

// Same sanitised name means the later upload replaces the earlier one.
func TestAccept_SameNameOverwrites(t *testing.T) {
	s := newStore(t)

	_, err := s.Accept(fileHeader(t, "a.png", []byte("first")))
	require.NoError(t, err)
	res, err := s.Accept(fileHeader(t, "a.png", []byte("second")))
	require.NoError(t, err)
	require.Equal(t, "a.png", res.Filename)

	got, err := os.ReadFile(filepath.Join(s.Dir(), "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
