package assets_test

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/gokulvs/pastemirror/internal/assets"
)

type memStorage struct {
	mu      sync.Mutex
	folders map[string]bool
	files   map[string][]byte
	mkErr   error
}

func newMemStorage() *memStorage {
	return &memStorage{folders: map[string]bool{}, files: map[string][]byte{}}
}

func (m *memStorage) CreateFolder(_ context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mkErr != nil {
		return m.mkErr
	}
	if m.folders[p] {
		return fmt.Errorf("folder %s: %w", p, fs.ErrExist)
	}
	m.folders[p] = true
	return nil
}

func (m *memStorage) CreateBinaryFile(_ context.Context, p string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[p]; ok {
		return fmt.Errorf("file %s: %w", p, fs.ErrExist)
	}
	m.files[p] = append([]byte(nil), data...)
	return nil
}

func TestResolve(t *testing.T) {
	cases := []struct {
		root, doc, want string
	}{
		{"Assets", "Notes/Trip.md", "/Assets/Notes"},
		{"Assets", "a/b/c/Deep.md", "/Assets/a/b/c"},
		{"Assets", "Top.md", "/Assets"},
		{" Media ", "Notes/Trip.md", "/Media/Notes"},
		{"Assets", "../up/x.md", "/Assets/../up"},
		{"Assets", "/abs/x.md", "/Assets//abs"},
	}
	for _, tc := range cases {
		if got := assets.Resolve(tc.root, tc.doc); got != tc.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tc.root, tc.doc, got, tc.want)
		}
	}
}

func TestResolveMirrorsGeneratedTrees(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	segments := []string{"Notes", "Trips", "2024", "a b", "..", "été", "x.y"}
	for i := 0; i < 500; i++ {
		dirs := make([]string, rng.IntN(5))
		for j := range dirs {
			dirs[j] = segments[rng.IntN(len(segments))]
		}
		doc := strings.Join(append(dirs, fmt.Sprintf("note%d.md", i)), "/")

		want := "/Assets"
		if len(dirs) > 0 {
			want += "/" + strings.Join(dirs, "/")
		}
		if got := assets.Resolve("Assets", doc); got != want {
			t.Fatalf("Resolve(%q) = %q, want %q", doc, got, want)
		}
	}
}

func TestPlaceWritesUnderMirroredFolder(t *testing.T) {
	store := newMemStorage()
	p := assets.NewPlacer(store, assets.WithDisambiguator(func() uint64 { return 42 }))

	got, err := p.Place(context.Background(), "/Assets/Notes", assets.Payload{Name: "photo.png", Data: []byte("png")})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if got != "/Assets/Notes/pasted42photo.png" {
		t.Fatalf("unexpected path %q", got)
	}
	if !store.folders["/Assets/Notes"] {
		t.Fatal("expected folder to be created")
	}
	if string(store.files[got]) != "png" {
		t.Fatalf("unexpected contents %q", store.files[got])
	}
}

func TestPlaceToleratesExistingFolder(t *testing.T) {
	store := newMemStorage()
	p := assets.NewPlacer(store)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := p.Place(ctx, "/Assets/Notes", assets.Payload{Name: "a.png", Data: []byte{1}}); err != nil {
			t.Fatalf("Place #%d: %v", i, err)
		}
	}
	if len(store.files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(store.files))
	}
}

func TestPlaceDirectoryCreateError(t *testing.T) {
	store := newMemStorage()
	store.mkErr = fs.ErrPermission
	p := assets.NewPlacer(store)

	_, err := p.Place(context.Background(), "/Assets/Notes", assets.Payload{Name: "a.png", Data: []byte{1}})
	var dirErr *assets.DirectoryCreateError
	if !errors.As(err, &dirErr) {
		t.Fatalf("expected DirectoryCreateError, got %v", err)
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected wrapped permission error, got %v", err)
	}
	if len(store.files) != 0 {
		t.Fatal("no file should be written")
	}
}

func TestPlaceCollisionIsFileWriteError(t *testing.T) {
	store := newMemStorage()
	p := assets.NewPlacer(store, assets.WithDisambiguator(func() uint64 { return 7 }))
	ctx := context.Background()

	first, err := p.Place(ctx, "/Assets", assets.Payload{Name: "a.png", Data: []byte("first")})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	_, err = p.Place(ctx, "/Assets", assets.Payload{Name: "a.png", Data: []byte("second")})
	var writeErr *assets.FileWriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("expected FileWriteError, got %v", err)
	}
	if !writeErr.Collision() {
		t.Fatal("expected collision")
	}
	if string(store.files[first]) != "first" {
		t.Fatal("existing asset must not be overwritten")
	}
	if !store.folders["/Assets"] {
		t.Fatal("folder should stay in place after a failed write")
	}
}

func TestPlaceThousandPastesDoNotCollide(t *testing.T) {
	store := newMemStorage()
	p := assets.NewPlacer(store)
	ctx := context.Background()

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		got, err := p.Place(ctx, "/Assets/Notes", assets.Payload{Name: "image.png", Data: []byte{byte(i)}})
		if err != nil {
			t.Fatalf("paste %d: %v", i, err)
		}
		if _, dup := seen[got]; dup {
			t.Fatalf("paste %d collided on %q", i, got)
		}
		seen[got] = struct{}{}
	}
}

func TestFileNameFallbacks(t *testing.T) {
	p := assets.NewPlacer(newMemStorage(), assets.WithDisambiguator(func() uint64 { return 1 }))
	png := []byte("\x89PNG\r\n\x1a\n0000")

	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"photo.png", nil, "pasted1photo.png"},
		{"", png, "pasted1image.png"},
		{"", []byte("plain"), "pasted1clipboard-file"},
		{`C:\Users\me\shot.jpg`, nil, "pasted1shot.jpg"},
		{"dir/inner.gif", nil, "pasted1inner.gif"},
	}
	for _, tc := range cases {
		if got := p.FileName(tc.name, tc.data); got != tc.want {
			t.Errorf("FileName(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDefaultDisambiguatorIsDigits(t *testing.T) {
	p := assets.NewPlacer(newMemStorage())
	re := regexp.MustCompile(`^pasted\d+photo\.png$`)
	if name := p.FileName("photo.png", nil); !re.MatchString(name) {
		t.Fatalf("unexpected name %q", name)
	}
}

type recordingSurface struct {
	text  string
	at    assets.Position
	calls int
}

func (r *recordingSurface) Cursor() assets.Position { return assets.Position{} }

func (r *recordingSurface) ReplaceRange(text string, at assets.Position) error {
	r.text, r.at = text, at
	r.calls++
	return nil
}

func TestBuildReferenceUsesBaseName(t *testing.T) {
	got := assets.BuildReference("/Assets/Notes/pasted12photo.png")
	if got != "![[pasted12photo.png]]" {
		t.Fatalf("unexpected token %q", got)
	}
	if strings.Contains(got, "/") {
		t.Fatal("token must not contain a directory component")
	}
}

func TestInsertReplacesAtCapturedPosition(t *testing.T) {
	s := &recordingSurface{}
	pos := assets.Position{Line: 3, Ch: 5}
	if err := assets.Insert(s, "![[x.png]]", pos); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if s.calls != 1 || s.at != pos || s.text != "![[x.png]]" {
		t.Fatalf("unexpected insert %+v", s)
	}
}
