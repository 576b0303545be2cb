package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mockdb "github.com/Drolfothesgnir/gohaa/db/mock"
	db "github.com/Drolfothesgnir/gohaa/db/sqlc"
)

func TestResolve(t *testing.T) {
	testCases := []struct {
		name    string
		ref     string
		dir     string
		want    string
		outside bool
	}{
		{name: "plain", ref: "main.pha", want: "main.pha"},
		{name: "relative", ref: "second.pha", dir: "common/parts", want: "common/parts/second.pha"},
		{name: "from_root", ref: "/root.pha", dir: "common/parts", want: "root.pha"},
		{name: "parent_dirs", ref: "../../pages/page.pha", dir: "common/parts", want: "pages/page.pha"},
		{name: "cleaned", ref: "./a/../b.pha", dir: "x", want: "x/b.pha"},
		{name: "escapes_root", ref: "../../a.pha", dir: "common", outside: true},
		{name: "root_itself", ref: "/", outside: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Resolve(tc.ref, tc.dir)
			if tc.outside {
				require.ErrorIs(t, err, ErrOutsideRoot)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	_, err := Resolve("  ", "")
	require.Error(t, err)
}

func TestDir(t *testing.T) {
	require.Equal(t, "", Dir("main.pha"))
	require.Equal(t, "common/parts", Dir("common/parts/first.pha"))
}

func writeFile(t *testing.T, root, name string, content []byte) {
	t.Helper()
	filename := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(filename), 0o755))
	require.NoError(t, os.WriteFile(filename, content, 0o644))
}

func TestFileSystemLookup(t *testing.T) {
	secondary := t.TempDir()
	main := t.TempDir()

	writeFile(t, main, "root.pha", []byte("main root"))
	writeFile(t, secondary, "root.pha", []byte("secondary root"))
	writeFile(t, main, "common/parts/first.pha", []byte("first"))
	writeFile(t, main, "common/parts/second.pha", []byte("second"))
	writeFile(t, secondary, "pages/page.pha", []byte("page"))

	l, err := NewFileSystem([]string{secondary, main}, "")
	require.NoError(t, err)

	ctx := context.Background()
	from := Dir("common/parts/first.pha")

	testCases := []struct {
		ref    string
		source string
		root   string
	}{
		{ref: "second.pha", source: "second", root: main},
		{ref: "/root.pha", source: "secondary root", root: secondary},
		{ref: "../../pages/page.pha", source: "page", root: secondary},
	}

	for _, tc := range testCases {
		t.Run(tc.ref, func(t *testing.T) {
			name, err := Resolve(tc.ref, from)
			require.NoError(t, err)

			tmpl, err := l.Load(ctx, name)
			require.NoError(t, err)
			require.Equal(t, tc.source, tmpl.Source)
			require.Equal(t, name, tmpl.Name)
			require.Equal(t, filepath.Join(tc.root, filepath.FromSlash(name)), tmpl.Origin)

			v, err := l.Version(ctx, name)
			require.NoError(t, err)
			require.True(t, v.Equal(tmpl.Version))
		})
	}

	_, err = l.Load(ctx, "missing.pha")
	require.True(t, IsNotFound(err))

	// directories are not templates
	_, err = l.Load(ctx, "common")
	require.True(t, IsNotFound(err))
}

func TestFileSystemVersionChanges(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.pha", []byte("a"))

	l, err := NewFileSystem([]string{root}, "utf-8")
	require.NoError(t, err)

	later := time.Now().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(filepath.Join(root, "a.pha"), later, later))

	v, err := l.Version(context.Background(), "a.pha")
	require.NoError(t, err)
	require.True(t, v.Equal(later))
}

func TestFileSystemEncoding(t *testing.T) {
	root := t.TempDir()
	// "żółw" in iso-8859-2
	writeFile(t, root, "latin2.pha", []byte{0xbf, 0xf3, 0xb3, 'w'})

	l, err := NewFileSystem([]string{root}, "iso-8859-2")
	require.NoError(t, err)

	tmpl, err := l.Load(context.Background(), "latin2.pha")
	require.NoError(t, err)
	require.Equal(t, "żółw", tmpl.Source)

	_, err = NewFileSystem([]string{root}, "no-such-charset")
	require.Error(t, err)

	_, err = NewFileSystem(nil, "")
	require.Error(t, err)
}

func TestMemory(t *testing.T) {
	m := NewMemory(map[string]string{"a.pha": "A"})
	ctx := context.Background()

	tmpl, err := m.Load(ctx, "a.pha")
	require.NoError(t, err)
	require.Equal(t, "A", tmpl.Source)

	m.Set("a.pha", "B")
	v, err := m.Version(ctx, "a.pha")
	require.NoError(t, err)
	require.True(t, v.After(tmpl.Version))

	m.Delete("a.pha")
	_, err = m.Load(ctx, "a.pha")
	require.True(t, IsNotFound(err))
	_, err = m.Version(ctx, "a.pha")
	require.True(t, IsNotFound(err))
}

func TestChain(t *testing.T) {
	first := NewMemory(map[string]string{"a.pha": "first"})
	second := NewMemory(map[string]string{"a.pha": "second", "b.pha": "second"})
	l := Chain(first, second)
	ctx := context.Background()

	tmpl, err := l.Load(ctx, "a.pha")
	require.NoError(t, err)
	require.Equal(t, "first", tmpl.Source)

	tmpl, err = l.Load(ctx, "b.pha")
	require.NoError(t, err)
	require.Equal(t, "second", tmpl.Source)

	_, err = l.Version(ctx, "b.pha")
	require.NoError(t, err)

	_, err = l.Load(ctx, "c.pha")
	require.True(t, IsNotFound(err))
	_, err = l.Version(ctx, "c.pha")
	require.True(t, IsNotFound(err))
}

func TestDatabase(t *testing.T) {
	updated := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	driverErr := errors.New("connection reset")

	testCases := []struct {
		name       string
		buildStubs func(store *mockdb.MockStore)
		check      func(t *testing.T, tmpl *Template, err error)
	}{
		{
			name: "OK",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().
					GetTemplate(gomock.Any(), gomock.Eq("pages/a.pha")).
					Times(1).
					Return(db.Template{ID: 1, Path: "pages/a.pha", Source: "%p", UpdatedAt: updated}, nil)
			},
			check: func(t *testing.T, tmpl *Template, err error) {
				require.NoError(t, err)
				require.Equal(t, "%p", tmpl.Source)
				require.Equal(t, "db:pages/a.pha", tmpl.Origin)
				require.True(t, tmpl.Version.Equal(updated))
			},
		},
		{
			name: "NotFound",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().
					GetTemplate(gomock.Any(), gomock.Any()).
					Times(1).
					Return(db.Template{}, &db.OpError{Op: "get-template", Kind: db.KindNotFound, Err: db.ErrTemplateNotFound})
			},
			check: func(t *testing.T, tmpl *Template, err error) {
				require.True(t, IsNotFound(err))
				require.ErrorIs(t, err, db.ErrTemplateNotFound)
			},
		},
		{
			name: "InternalError",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().
					GetTemplate(gomock.Any(), gomock.Any()).
					Times(1).
					Return(db.Template{}, driverErr)
			},
			check: func(t *testing.T, tmpl *Template, err error) {
				require.False(t, IsNotFound(err))
				require.ErrorIs(t, err, driverErr)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mockdb.NewMockStore(ctrl)
			tc.buildStubs(store)

			tmpl, err := NewDatabase(store).Load(context.Background(), "pages/a.pha")
			tc.check(t, tmpl, err)
		})
	}
}

func TestDatabaseVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mockdb.NewMockStore(ctrl)
	updated := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	store.EXPECT().GetTemplateVersion(gomock.Any(), "a.pha").Times(1).Return(updated, nil)
	store.EXPECT().GetTemplateVersion(gomock.Any(), "b.pha").Times(1).Return(time.Time{}, db.ErrTemplateNotFound)

	l := NewDatabase(store)
	v, err := l.Version(context.Background(), "a.pha")
	require.NoError(t, err)
	require.True(t, v.Equal(updated))

	_, err = l.Version(context.Background(), "b.pha")
	require.True(t, IsNotFound(err))
}
