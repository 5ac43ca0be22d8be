package theme

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultTOML = `text-color = "#000000"
background-color = "#ffffff"
use-system-selection-color = true
`
	midnightTOML = `text-color = "#e0e0e0"
background-color = "#101020"
use-system-selection-color = false
`
)

func testBundle(files map[string]string) fstest.MapFS {
	fsys := make(fstest.MapFS, len(files))
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	m, err := NewManager(Options{
		UserDir: filepath.Join(t.TempDir(), "themes"),
		Bundled: testBundle(map[string]string{
			"Default.toml":  defaultTOML,
			"Midnight.toml": midnightTOML,
		}),
	})
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func writeUserTheme(t *testing.T, m *Manager, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(m.UserDir(), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(m.UserDir(), name+".toml"), []byte(content), 0644))
}

// drain returns the events already queued on ch.
func drain(ch <-chan Event) []Event {
	var events []Event
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

func save(t *testing.T, m *Manager, name string, th *Theme) (string, error) {
	t.Helper()
	op, ok := m.SaveTheme(name, th)
	require.True(t, ok)
	return op.Wait()
}

func TestNewManager_RequiresUserDir(t *testing.T) {
	_, err := NewManager(Options{})
	assert.Error(t, err)
}

func TestNewManager_DefaultsToEmbedded(t *testing.T) {
	m, err := NewManager(Options{UserDir: t.TempDir()})
	require.NoError(t, err)
	defer m.Close()

	assert.Contains(t, m.ThemeNames(), DefaultThemeName)
}

func TestThemeNames_MergedAndSorted(t *testing.T) {
	m := newTestManager(t)
	writeUserTheme(t, m, "aurora", midnightTOML)
	writeUserTheme(t, m, "Midnight", defaultTOML)
	require.NoError(t, m.Refresh())

	assert.Equal(t, []string{"aurora", "Default", "Midnight"}, m.ThemeNames())
}

func TestThemeNames_ReturnsCopy(t *testing.T) {
	m := newTestManager(t)
	names := m.ThemeNames()
	names[0] = "mutated"
	assert.NotContains(t, m.ThemeNames(), "mutated")
}

func TestNewManager_SkipsUnusableUserFiles(t *testing.T) {
	m := newTestManager(t)
	writeUserTheme(t, m, "Good", defaultTOML)
	writeUserTheme(t, m, "_partial", defaultTOML)
	require.NoError(t, os.WriteFile(filepath.Join(m.UserDir(), "notes.txt"), []byte("x"), 0644))
	require.NoError(t, m.Refresh())

	assert.Equal(t, []string{"Default", "Good", "Midnight"}, m.ThemeNames())
}

func TestNewManager_SkipsCaseOnlyCollisions(t *testing.T) {
	m := newTestManager(t)
	writeUserTheme(t, m, "default", midnightTOML)
	require.NoError(t, m.Refresh())

	assert.Equal(t, []string{"Default", "Midnight"}, m.ThemeNames())

	for _, name := range []string{"Default", "default"} {
		bundled, customized := m.IsBundledTheme(name)
		assert.True(t, bundled, name)
		assert.False(t, customized, name)
	}

	th, isBundled, err := m.ArchivedTheme("default")
	require.NoError(t, err)
	assert.True(t, isBundled)
	assert.Equal(t, "#ffffff", th.Background.Hex())
}

func TestProvenance(t *testing.T) {
	m := newTestManager(t)
	writeUserTheme(t, m, "Midnight", defaultTOML)
	writeUserTheme(t, m, "Mine", defaultTOML)
	require.NoError(t, m.Refresh())

	assert.Equal(t, ProvenanceBundled, m.Provenance("Default"))
	assert.Equal(t, ProvenanceCustomized, m.Provenance("Midnight"))
	assert.Equal(t, ProvenanceUser, m.Provenance("Mine"))
	assert.Equal(t, ProvenanceNone, m.Provenance("Missing"))
	assert.Equal(t, ProvenanceBundled, m.Provenance("default"), "lookup ignores case")

	bundled, customized := m.IsBundledTheme("Default")
	assert.True(t, bundled)
	assert.False(t, customized)

	bundled, customized = m.IsBundledTheme("Midnight")
	assert.True(t, bundled)
	assert.True(t, customized)

	bundled, customized = m.IsBundledTheme("Mine")
	assert.False(t, bundled)
	assert.False(t, customized)
}

func TestThemeInfos(t *testing.T) {
	m := newTestManager(t)
	writeUserTheme(t, m, "Mine", defaultTOML)
	require.NoError(t, m.Refresh())

	infos := m.ThemeInfos()
	require.Len(t, infos, 3)

	assert.Equal(t, "Default", infos[0].Name)
	assert.Empty(t, infos[0].Path)
	assert.True(t, infos[0].ModTime.IsZero())

	assert.Equal(t, "Mine", infos[2].Name)
	assert.Equal(t, ProvenanceUser, infos[2].Provenance)
	assert.Equal(t, filepath.Join(m.UserDir(), "Mine.toml"), infos[2].Path)
	assert.False(t, infos[2].ModTime.IsZero())
}

func TestArchivedTheme(t *testing.T) {
	m := newTestManager(t)

	th, isBundled, err := m.ArchivedTheme("Midnight")
	require.NoError(t, err)
	assert.True(t, isBundled)
	assert.Equal(t, "#101020", th.Background.Hex())

	writeUserTheme(t, m, "Midnight", `background-color = "#000000"`)
	require.NoError(t, m.Refresh())

	th, isBundled, err = m.ArchivedTheme("Midnight")
	require.NoError(t, err)
	assert.False(t, isBundled)
	assert.Equal(t, "#000000", th.Background.Hex())

	_, _, err = m.ArchivedTheme("Nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchivedTheme_FallsBackToBundled(t *testing.T) {
	m := newTestManager(t)
	writeUserTheme(t, m, "Midnight", `not = valid = toml`)
	require.NoError(t, m.Refresh())

	th, isBundled, err := m.ArchivedTheme("Midnight")
	require.NoError(t, err)
	assert.True(t, isBundled)
	assert.Equal(t, "#101020", th.Background.Hex())
}

func TestArchivedTheme_CorruptUserTheme(t *testing.T) {
	m := newTestManager(t)
	writeUserTheme(t, m, "Broken", `text-color = "purple"`)
	require.NoError(t, m.Refresh())

	_, _, err := m.ArchivedTheme("Broken")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestArchivedTheme_ReturnsCopies(t *testing.T) {
	m := newTestManager(t)

	first, _, err := m.ArchivedTheme("Default")
	require.NoError(t, err)
	first.Text.RGB.R = 1

	second, _, err := m.ArchivedTheme("Default")
	require.NoError(t, err)
	assert.Equal(t, "#000000", second.Text.Hex())
}

func TestSaveTheme_NewTheme(t *testing.T) {
	m := newTestManager(t)
	events := m.Subscribe()

	th := &Theme{Text: MustParseColor("#000000"), UsesSystemSelectionColor: true}
	name, err := save(t, m, "MyTheme", th)
	require.NoError(t, err)
	assert.Equal(t, "MyTheme", name)

	assert.Contains(t, m.ThemeNames(), "MyTheme")
	assert.FileExists(t, filepath.Join(m.UserDir(), "MyTheme.toml"))

	got, isBundled, err := m.ArchivedTheme("MyTheme")
	require.NoError(t, err)
	assert.False(t, isBundled)
	assert.Equal(t, "#000000", got.Text.Hex())
	assert.True(t, got.UsesSystemSelectionColor)
	assert.Nil(t, got.Background)

	assert.Equal(t, []Event{EventListChanged, EventContentChanged}, drain(events))
}

func TestSaveTheme_Overwrite(t *testing.T) {
	m := newTestManager(t)
	_, err := save(t, m, "MyTheme", &Theme{Text: MustParseColor("#000000")})
	require.NoError(t, err)

	events := m.Subscribe()
	_, err = save(t, m, "MyTheme", &Theme{Text: MustParseColor("#ffffff")})
	require.NoError(t, err)

	got, _, err := m.ArchivedTheme("MyTheme")
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", got.Text.Hex())
	assert.Equal(t, []Event{EventContentChanged}, drain(events))
}

func TestSaveTheme_CustomizesBundled(t *testing.T) {
	m := newTestManager(t)
	events := m.Subscribe()

	name, err := save(t, m, "midnight", &Theme{Text: MustParseColor("#ff0000")})
	require.NoError(t, err)
	assert.Equal(t, "Midnight", name, "saving adopts the existing name's case")

	_, customized := m.IsBundledTheme("Midnight")
	assert.True(t, customized)
	assert.Equal(t, []string{"Default", "Midnight"}, m.ThemeNames())
	assert.Equal(t, []Event{EventContentChanged}, drain(events))
}

func TestSaveTheme_RoundTrip(t *testing.T) {
	m := newTestManager(t)

	for _, name := range []string{"Default", "Midnight"} {
		original, _, err := m.ArchivedTheme(name)
		require.NoError(t, err)

		_, err = save(t, m, name, original)
		require.NoError(t, err)

		saved, isBundled, err := m.ArchivedTheme(name)
		require.NoError(t, err)
		assert.False(t, isBundled)
		assert.Equal(t, original, saved, name)
	}
}

func TestSaveTheme_Errors(t *testing.T) {
	m := newTestManager(t)

	_, err := save(t, m, "bad/name", DefaultTheme())
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = save(t, m, "", DefaultTheme())
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = save(t, m, "Bad", &Theme{Text: &Color{System: "nope"}})
	assert.ErrorIs(t, err, ErrInvalidFormat)

	op, ok := m.SaveTheme("Nil", nil)
	assert.False(t, ok)
	assert.ErrorIs(t, op.Err(), ErrInvalidFormat)

	assert.Equal(t, []string{"Default", "Midnight"}, m.ThemeNames())
	entries, _ := os.ReadDir(m.UserDir())
	assert.Empty(t, entries, "failed saves leave nothing behind")
}

func TestSaveTheme_DiskError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	m := newTestManager(t)
	require.NoError(t, os.MkdirAll(m.UserDir(), 0755))
	require.NoError(t, os.Chmod(m.UserDir(), 0555))
	t.Cleanup(func() { os.Chmod(m.UserDir(), 0755) })

	_, err := save(t, m, "Mine", DefaultTheme())
	assert.ErrorIs(t, err, ErrIO)
	assert.NotContains(t, m.ThemeNames(), "Mine")
}

func TestSaveTheme_CallerCannotMutatePendingSave(t *testing.T) {
	m := newTestManager(t)
	th := &Theme{Text: MustParseColor("#111111")}

	op, ok := m.SaveTheme("Mine", th)
	require.True(t, ok)
	th.Text = MustParseColor("#222222")
	require.NoError(t, op.Err())

	got, _, err := m.ArchivedTheme("Mine")
	require.NoError(t, err)
	assert.Equal(t, "#111111", got.Text.Hex())
}

func TestSaveTheme_Concurrent(t *testing.T) {
	m := newTestManager(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			op, ok := m.SaveTheme("Shared", DefaultTheme())
			if assert.True(t, ok) {
				assert.NoError(t, op.Err())
			}
		}()
	}
	wg.Wait()

	_, _, err := m.ArchivedTheme("Shared")
	require.NoError(t, err)

	entries, err := os.ReadDir(m.UserDir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestRenameTheme(t *testing.T) {
	m := newTestManager(t)
	_, err := save(t, m, "Old", DefaultTheme())
	require.NoError(t, err)

	events := m.Subscribe()
	require.NoError(t, m.RenameTheme("Old", "New"))

	assert.Equal(t, []string{"Default", "Midnight", "New"}, m.ThemeNames())
	assert.NoFileExists(t, filepath.Join(m.UserDir(), "Old.toml"))
	assert.FileExists(t, filepath.Join(m.UserDir(), "New.toml"))
	assert.Equal(t, []Event{EventListChanged}, drain(events))
}

func TestRenameTheme_Errors(t *testing.T) {
	m := newTestManager(t)
	_, err := save(t, m, "Mine", DefaultTheme())
	require.NoError(t, err)
	_, err = save(t, m, "Other", DefaultTheme())
	require.NoError(t, err)
	_, err = save(t, m, "Midnight", DefaultTheme())
	require.NoError(t, err)

	tests := []struct {
		name     string
		oldName  string
		newName  string
		expected error
	}{
		{"to itself", "Mine", "Mine", ErrInvalidName},
		{"to itself in other case", "Mine", "MINE", ErrInvalidName},
		{"to existing user theme", "Mine", "Other", ErrInvalidName},
		{"to bundled name", "Mine", "Default", ErrInvalidName},
		{"empty", "Mine", "  ", ErrInvalidName},
		{"unsafe", "Mine", "a/b", ErrInvalidName},
		{"bundled only", "Default", "Renamed", ErrNotFound},
		{"unknown", "Ghost", "Renamed", ErrNotFound},
		{"customized bundled", "Midnight", "Renamed", ErrInvalidOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := m.ThemeNames()
			err := m.RenameTheme(tt.oldName, tt.newName)
			assert.ErrorIs(t, err, tt.expected)
			assert.Equal(t, before, m.ThemeNames())
		})
	}
}

func TestRemoveTheme(t *testing.T) {
	m := newTestManager(t)
	_, err := save(t, m, "Mine", DefaultTheme())
	require.NoError(t, err)

	events := m.Subscribe()
	require.NoError(t, m.RemoveTheme("Mine"))

	assert.NotContains(t, m.ThemeNames(), "Mine")
	assert.NoFileExists(t, filepath.Join(m.UserDir(), "Mine.toml"))
	assert.Equal(t, []Event{EventListChanged}, drain(events))
}

func TestRemoveTheme_UnshadowsBundled(t *testing.T) {
	m := newTestManager(t)
	_, err := save(t, m, "Midnight", &Theme{Background: MustParseColor("#000000")})
	require.NoError(t, err)

	events := m.Subscribe()
	require.NoError(t, m.RemoveTheme("Midnight"))

	bundled, customized := m.IsBundledTheme("Midnight")
	assert.True(t, bundled)
	assert.False(t, customized)

	th, isBundled, err := m.ArchivedTheme("Midnight")
	require.NoError(t, err)
	assert.True(t, isBundled)
	assert.Equal(t, "#101020", th.Background.Hex())
	assert.Equal(t, []Event{EventListChanged, EventContentChanged}, drain(events))
}

func TestRemoveTheme_NotFound(t *testing.T) {
	m := newTestManager(t)
	before := m.ThemeNames()

	assert.ErrorIs(t, m.RemoveTheme("MyTheme"), ErrNotFound)
	assert.ErrorIs(t, m.RemoveTheme("Default"), ErrNotFound)
	assert.Equal(t, before, m.ThemeNames())
}

func TestRemoveTheme_VanishedFile(t *testing.T) {
	m := newTestManager(t)
	_, err := save(t, m, "Mine", DefaultTheme())
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(m.UserDir(), "Mine.toml")))

	events := m.Subscribe()
	assert.ErrorIs(t, m.RemoveTheme("Mine"), ErrNotFound)
	assert.NotContains(t, m.ThemeNames(), "Mine")
	assert.Equal(t, []Event{EventListChanged}, drain(events))
}

func TestRestoreTheme(t *testing.T) {
	m := newTestManager(t)
	_, err := save(t, m, "Midnight", &Theme{Background: MustParseColor("#000000")})
	require.NoError(t, err)

	events := m.Subscribe()
	op, ok := m.RestoreTheme("Midnight")
	require.True(t, ok)
	name, err := op.Wait()
	require.NoError(t, err)
	assert.Equal(t, "Midnight", name)

	th, isBundled, err := m.ArchivedTheme("Midnight")
	require.NoError(t, err)
	assert.True(t, isBundled)
	assert.Equal(t, "#101020", th.Background.Hex())
	assert.Equal(t, []Event{EventContentChanged}, drain(events))
}

func TestRestoreTheme_VanishedOverride(t *testing.T) {
	m := newTestManager(t)
	_, err := save(t, m, "Midnight", &Theme{Background: MustParseColor("#000000")})
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(m.UserDir(), "Midnight.toml")))

	events := m.Subscribe()
	op, ok := m.RestoreTheme("Midnight")
	require.True(t, ok)
	assert.ErrorIs(t, op.Err(), ErrNotFound)

	bundled, customized := m.IsBundledTheme("Midnight")
	assert.True(t, bundled)
	assert.False(t, customized)
	assert.Equal(t, []Event{EventContentChanged}, drain(events))
}

func TestRestoreTheme_Errors(t *testing.T) {
	m := newTestManager(t)
	_, err := save(t, m, "Mine", DefaultTheme())
	require.NoError(t, err)

	tests := []struct {
		name     string
		theme    string
		expected error
	}{
		{"unknown", "Ghost", ErrNotFound},
		{"user only", "Mine", ErrInvalidOperation},
		{"not customized", "Default", ErrInvalidOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, ok := m.RestoreTheme(tt.theme)
			require.True(t, ok)
			assert.ErrorIs(t, op.Err(), tt.expected)
		})
	}
}

func TestDuplicateTheme(t *testing.T) {
	m := newTestManager(t)
	events := m.Subscribe()

	name, err := m.DuplicateTheme("Default")
	require.NoError(t, err)
	assert.Equal(t, "Default copy", name)

	name, err = m.DuplicateTheme("Default")
	require.NoError(t, err)
	assert.Equal(t, "Default copy 2", name)

	th, isBundled, err := m.ArchivedTheme("Default copy 2")
	require.NoError(t, err)
	assert.False(t, isBundled)
	assert.Equal(t, "#ffffff", th.Background.Hex())
	assert.Equal(t, []Event{EventListChanged, EventListChanged}, drain(events))
}

func TestDuplicateTheme_UsesEffectiveContent(t *testing.T) {
	m := newTestManager(t)
	_, err := save(t, m, "Midnight", &Theme{Background: MustParseColor("#000000")})
	require.NoError(t, err)

	name, err := m.DuplicateTheme("Midnight")
	require.NoError(t, err)

	th, _, err := m.ArchivedTheme(name)
	require.NoError(t, err)
	assert.Equal(t, "#000000", th.Background.Hex())
}

func TestDuplicateTheme_NotFound(t *testing.T) {
	m := newTestManager(t)
	_, err := m.DuplicateTheme("Ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExportTheme(t *testing.T) {
	m := newTestManager(t)
	dir := t.TempDir()

	for _, file := range []string{"Midnight.toml", "Midnight.json", "Midnight.yaml", "Midnight.theme"} {
		t.Run(file, func(t *testing.T) {
			dest := filepath.Join(dir, file)
			require.NoError(t, m.ExportTheme("Midnight", dest))

			format, ok := FormatForPath(dest)
			if !ok {
				format = FormatTOML
			}
			data, err := os.ReadFile(dest)
			require.NoError(t, err)
			th, err := Decode(data, format)
			require.NoError(t, err)
			assert.Equal(t, "#101020", th.Background.Hex())
		})
	}
}

func TestExportTheme_Errors(t *testing.T) {
	m := newTestManager(t)

	err := m.ExportTheme("Ghost", filepath.Join(t.TempDir(), "Ghost.toml"))
	assert.ErrorIs(t, err, ErrNotFound)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	err = m.ExportTheme("Default", filepath.Join(blocker, "Default.toml"))
	assert.ErrorIs(t, err, ErrIO)
}

func TestImportTheme(t *testing.T) {
	m := newTestManager(t)
	src := filepath.Join(t.TempDir(), "Ocean.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"text-color": "#aabbcc"}`), 0644))

	events := m.Subscribe()
	name, err := m.ImportTheme(src, false)
	require.NoError(t, err)
	assert.Equal(t, "Ocean", name)

	th, isBundled, err := m.ArchivedTheme("Ocean")
	require.NoError(t, err)
	assert.False(t, isBundled)
	assert.Equal(t, "#aabbcc", th.Text.Hex())
	assert.FileExists(t, filepath.Join(m.UserDir(), "Ocean.toml"))
	assert.Equal(t, []Event{EventListChanged}, drain(events))
}

func TestImportTheme_ExistingWithoutReplace(t *testing.T) {
	m := newTestManager(t)
	_, err := save(t, m, "Ocean", &Theme{Text: MustParseColor("#111111")})
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "Ocean.toml")
	require.NoError(t, os.WriteFile(src, []byte(`text-color = "#222222"`), 0644))

	_, err = m.ImportTheme(src, false)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	th, _, err := m.ArchivedTheme("Ocean")
	require.NoError(t, err)
	assert.Equal(t, "#111111", th.Text.Hex())

	// Bundled names count as existing too.
	bundledSrc := filepath.Join(t.TempDir(), "Default.toml")
	require.NoError(t, os.WriteFile(bundledSrc, []byte(`text-color = "#222222"`), 0644))
	_, err = m.ImportTheme(bundledSrc, false)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestImportTheme_Replace(t *testing.T) {
	m := newTestManager(t)
	src := filepath.Join(t.TempDir(), "midnight.yaml")
	require.NoError(t, os.WriteFile(src, []byte("background-color: '#222222'\n"), 0644))

	events := m.Subscribe()
	name, err := m.ImportTheme(src, true)
	require.NoError(t, err)
	assert.Equal(t, "Midnight", name)

	th, isBundled, err := m.ArchivedTheme("Midnight")
	require.NoError(t, err)
	assert.False(t, isBundled)
	assert.Equal(t, "#222222", th.Background.Hex())
	assert.Equal(t, []Event{EventListChanged, EventContentChanged}, drain(events))
}

func TestImportTheme_Errors(t *testing.T) {
	m := newTestManager(t)
	dir := t.TempDir()

	invalid := filepath.Join(dir, "Broken.toml")
	require.NoError(t, os.WriteFile(invalid, []byte(`text-color = 12`), 0644))
	_, err := m.ImportTheme(invalid, false)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = m.ImportTheme(filepath.Join(dir, "Missing.toml"), false)
	assert.ErrorIs(t, err, ErrIO)

	hidden := filepath.Join(dir, ".toml")
	require.NoError(t, os.WriteFile(hidden, []byte(defaultTOML), 0644))
	_, err = m.ImportTheme(hidden, false)
	assert.ErrorIs(t, err, ErrInvalidName)

	assert.Equal(t, []string{"Default", "Midnight"}, m.ThemeNames())
}

func TestCreateUntitledTheme(t *testing.T) {
	m := newTestManager(t)
	events := m.Subscribe()

	var names []string
	for range 3 {
		op, ok := m.CreateUntitledTheme()
		require.True(t, ok)
		name, err := op.Wait()
		require.NoError(t, err)
		names = append(names, name)
	}

	assert.Equal(t, []string{"Untitled", "Untitled 2", "Untitled 3"}, names)

	th, isBundled, err := m.ArchivedTheme("Untitled")
	require.NoError(t, err)
	assert.False(t, isBundled)
	assert.Equal(t, "#ffffff", th.Background.Hex(), "copies the bundled default")
	assert.Equal(t, []Event{EventListChanged, EventListChanged, EventListChanged}, drain(events))
}

func TestCreateUntitledTheme_WithoutBundledDefault(t *testing.T) {
	m, err := NewManager(Options{UserDir: t.TempDir(), Bundled: fstest.MapFS{}})
	require.NoError(t, err)
	defer m.Close()

	op, ok := m.CreateUntitledTheme()
	require.True(t, ok)
	name, err := op.Wait()
	require.NoError(t, err)

	th, _, err := m.ArchivedTheme(name)
	require.NoError(t, err)
	assert.Equal(t, DefaultTheme().Keywords.Hex(), th.Keywords.Hex())
}

func TestRefresh_DetectsExternalChanges(t *testing.T) {
	m := newTestManager(t)
	events := m.Subscribe()

	writeUserTheme(t, m, "Dropped", defaultTOML)
	require.NoError(t, m.Refresh())
	assert.Contains(t, m.ThemeNames(), "Dropped")
	assert.Equal(t, []Event{EventListChanged, EventContentChanged}, drain(events))

	require.NoError(t, m.Refresh())
	assert.Empty(t, drain(events), "no change, no events")
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	m := newTestManager(t)
	ch := m.Subscribe()
	m.Unsubscribe(ch)

	_, ok := <-ch
	assert.False(t, ok, "channel closed on unsubscribe")

	_, err := m.DuplicateTheme("Default")
	require.NoError(t, err)
}

func TestSubscribe_SlowSubscriberDoesNotBlock(t *testing.T) {
	m := newTestManager(t)
	_ = m.Subscribe()

	for range subscriberBuffer + 5 {
		_, err := m.DuplicateTheme("Default")
		require.NoError(t, err)
	}
}

func TestClose(t *testing.T) {
	m := newTestManager(t)
	events := m.Subscribe()

	op, ok := m.SaveTheme("Pending", DefaultTheme())
	require.True(t, ok)
	require.NoError(t, m.Close())

	// Accepted work completes before Close returns.
	assert.NoError(t, op.Err())
	assert.FileExists(t, filepath.Join(m.UserDir(), "Pending.toml"))

	for range events {
	}

	op, ok = m.SaveTheme("Late", DefaultTheme())
	assert.False(t, ok)
	assert.ErrorIs(t, op.Err(), ErrClosed)

	_, ok = m.CreateUntitledTheme()
	assert.False(t, ok)
	assert.ErrorIs(t, m.RemoveTheme("Pending"), ErrClosed)
	assert.ErrorIs(t, m.Refresh(), ErrClosed)

	late := m.Subscribe()
	_, open := <-late
	assert.False(t, open)

	assert.NoError(t, m.Close(), "close is idempotent")
}

func TestOp_Then(t *testing.T) {
	m := newTestManager(t)
	op, ok := m.SaveTheme("Callback", DefaultTheme())
	require.True(t, ok)

	got := make(chan string, 1)
	op.Then(func(name string, err error) {
		assert.NoError(t, err)
		got <- name
	})
	assert.Equal(t, "Callback", <-got)
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "list-changed", EventListChanged.String())
	assert.Equal(t, "content-changed", EventContentChanged.String())
	assert.Equal(t, "unknown", Event(0).String())
}
