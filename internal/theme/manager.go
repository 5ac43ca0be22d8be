package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Provenance classifies where a theme name resolves from.
type Provenance int

const (
	// ProvenanceNone means no theme of that name exists.
	ProvenanceNone Provenance = iota
	// ProvenanceBundled is a bundled theme without a user override.
	ProvenanceBundled
	// ProvenanceUser is a user theme with no bundled counterpart.
	ProvenanceUser
	// ProvenanceCustomized is a bundled theme shadowed by a user override.
	ProvenanceCustomized
)

// String returns a short human-readable label.
func (p Provenance) String() string {
	switch p {
	case ProvenanceBundled:
		return "bundled"
	case ProvenanceUser:
		return "user"
	case ProvenanceCustomized:
		return "customized"
	default:
		return "none"
	}
}

// ThemeInfo provides basic theme information for listing.
type ThemeInfo struct {
	Name       string
	Provenance Provenance
	Path       string    // user file path; empty for bundled-only themes
	ModTime    time.Time // user file modification time; zero for bundled-only themes
}

// Options configures a Manager.
type Options struct {
	// UserDir holds user themes. Created on first write.
	UserDir string
	// Bundled holds read-only "<name>.toml" files. Defaults to BundledFS().
	Bundled fs.FS
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Manager owns the bundled and user theme sets and the merged name index.
// It is safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	userDir string
	bundled fs.FS

	bundledNames map[string]bool
	userNames    map[string]bool
	userModTimes map[string]time.Time
	names        []string // sorted union of bundledNames and userNames
	closed       bool

	pending errgroup.Group

	subMu       sync.Mutex
	subscribers []chan Event
	subsClosed  bool
}

// NewManager creates a Manager and scans both theme sets.
func NewManager(opts Options) (*Manager, error) {
	if opts.UserDir == "" {
		return nil, errors.New("user themes directory is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	bundled := opts.Bundled
	if bundled == nil {
		bundled = BundledFS()
	}

	m := &Manager{
		logger:  logger,
		userDir: opts.UserDir,
		bundled: bundled,
	}

	if err := m.scan(); err != nil {
		return nil, err
	}

	m.logger.Debug("theme manager ready",
		"user_dir", m.userDir,
		"bundled", len(m.bundledNames),
		"user", len(m.userNames))
	return m, nil
}

// UserDir returns the user themes directory.
func (m *Manager) UserDir() string {
	return m.userDir
}

// scan rebuilds the index from disk. Caller must hold m.mu or be the constructor.
func (m *Manager) scan() error {
	bundled, err := listThemeFiles(m.bundled)
	if err != nil {
		return fmt.Errorf("%w: read bundled themes: %w", ErrIO, err)
	}

	user, err := listThemeFiles(os.DirFS(m.userDir))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: read %s: %w", ErrIO, m.userDir, err)
	}

	m.bundledNames = make(map[string]bool, len(bundled))
	for _, name := range bundled {
		m.bundledNames[name] = true
	}

	// Names are unique ignoring case. A user file that differs from a bundled
	// or earlier user name only by case cannot be addressed and is skipped.
	taken := make(map[string]string, len(bundled)+len(user))
	for _, name := range bundled {
		taken[strings.ToLower(name)] = name
	}

	m.userNames = make(map[string]bool, len(user))
	m.userModTimes = make(map[string]time.Time, len(user))
	for _, name := range user {
		if _, err := ValidateName(name); err != nil {
			m.logger.Warn("skipping user theme with unusable name", "file", name, "error", err)
			continue
		}
		if other, ok := taken[strings.ToLower(name)]; ok && other != name {
			m.logger.Warn("skipping user theme whose name differs only in case", "file", name, "theme", other)
			continue
		}
		taken[strings.ToLower(name)] = name
		m.userNames[name] = true
		m.userModTimes[name] = m.userModTime(name)
	}

	m.rebuildNames()
	return nil
}

// rebuildNames recomputes the sorted merged name list.
func (m *Manager) rebuildNames() {
	names := make([]string, 0, len(m.bundledNames)+len(m.userNames))
	for name := range m.bundledNames {
		names = append(names, name)
	}
	for name := range m.userNames {
		if !m.bundledNames[name] && !containsName(names, name) {
			names = append(names, name)
		}
	}
	sortNames(names)
	m.names = names
}

// ThemeNames returns the sorted names of all visible themes.
func (m *Manager) ThemeNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.names)
}

// canonical returns the visible name matching name case-insensitively, or
// name itself when there is none.
func (m *Manager) canonical(name string) string {
	if m.bundledNames[name] || m.userNames[name] {
		return name
	}
	for _, n := range m.names {
		if strings.EqualFold(n, name) {
			return n
		}
	}
	return name
}

func (m *Manager) provenance(name string) Provenance {
	bundled, user := m.bundledNames[name], m.userNames[name]
	switch {
	case bundled && user:
		return ProvenanceCustomized
	case bundled:
		return ProvenanceBundled
	case user:
		return ProvenanceUser
	default:
		return ProvenanceNone
	}
}

// Provenance reports where name resolves from.
func (m *Manager) Provenance(name string) Provenance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.provenance(m.canonical(name))
}

// IsBundledTheme reports whether a bundled theme called name exists and, if
// so, whether a user override currently shadows it.
func (m *Manager) IsBundledTheme(name string) (bundled, customized bool) {
	switch m.Provenance(name) {
	case ProvenanceBundled:
		return true, false
	case ProvenanceCustomized:
		return true, true
	default:
		return false, false
	}
}

// ThemeInfos returns listing information for every visible theme, in name order.
func (m *Manager) ThemeInfos() []ThemeInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]ThemeInfo, 0, len(m.names))
	for _, name := range m.names {
		info := ThemeInfo{Name: name, Provenance: m.provenance(name)}
		if m.userNames[name] {
			info.Path = m.userPath(name)
			info.ModTime = m.userModTimes[name]
		}
		infos = append(infos, info)
	}
	return infos
}

func (m *Manager) userPath(name string) string {
	return filepath.Join(m.userDir, name+"."+Extension)
}

func (m *Manager) userModTime(name string) time.Time {
	st, err := os.Stat(m.userPath(name))
	if err != nil {
		return time.Time{}
	}
	return st.ModTime()
}

// ArchivedTheme returns a copy of the effective theme for name: the user
// override when one exists, otherwise the bundled theme. isBundled reports
// whether the returned content came from the bundled set.
func (m *Manager) ArchivedTheme(name string) (t *Theme, isBundled bool, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.load(m.canonical(name))
}

// load resolves the effective theme. Caller must hold m.mu.
func (m *Manager) load(name string) (*Theme, bool, error) {
	if m.userNames[name] {
		t, err := m.loadUser(name)
		if err == nil {
			return t, false, nil
		}
		if !m.bundledNames[name] {
			return nil, false, err
		}
		m.logger.Warn("failed to load user theme, trying bundled", "theme", name, "error", err)
	}

	if m.bundledNames[name] {
		t, err := m.loadBundled(name)
		if err != nil {
			return nil, true, err
		}
		return t, true, nil
	}

	return nil, false, fmt.Errorf("%w: %q", ErrNotFound, name)
}

func (m *Manager) loadUser(name string) (*Theme, error) {
	path := m.userPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	t, err := Decode(data, FormatTOML)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func (m *Manager) loadBundled(name string) (*Theme, error) {
	data, err := fs.ReadFile(m.bundled, name+"."+Extension)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	t, err := Decode(data, FormatTOML)
	if err != nil {
		return nil, fmt.Errorf("bundled theme %q: %w", name, err)
	}
	return t, nil
}

// writeUser validates and writes t as the user theme name, then updates the
// index. It reports whether name was already visible. Caller must hold m.mu.
func (m *Manager) writeUser(name string, t *Theme) (existed bool, err error) {
	data, err := Encode(t, FormatTOML)
	if err != nil {
		return false, invalidFormat(err)
	}

	path := m.userPath(name)
	if err := writeFileAtomic(path, data); err != nil {
		return false, fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}

	existed = m.provenance(name) != ProvenanceNone
	m.userNames[name] = true
	m.userModTimes[name] = m.userModTime(name)
	if !existed {
		m.rebuildNames()
	}
	return existed, nil
}

// checkOpen returns ErrClosed once Close has been called. Caller must hold m.mu.
func (m *Manager) checkOpen() error {
	if m.closed {
		return ErrClosed
	}
	return nil
}

// startOp runs fn in the background and returns its Op. Requests made after
// Close are rejected with an already-completed Op.
func (m *Manager) startOp(fn func() (string, error)) (*Op, bool) {
	// Holding the read lock across Go keeps Close from starting its wait
	// between the closed check and the goroutine being registered.
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return failedOp(ErrClosed), false
	}

	op := newOp()
	m.pending.Go(func() error {
		op.complete(fn())
		return nil
	})
	return op, true
}

// SaveTheme writes t as the user theme name, replacing any existing user
// file. The write happens in the background; ok reports whether the request
// was accepted, not whether it succeeded.
func (m *Manager) SaveTheme(name string, t *Theme) (op *Op, ok bool) {
	if t == nil {
		return failedOp(fmt.Errorf("%w: nil theme", ErrInvalidFormat)), false
	}
	t = t.Clone()

	return m.startOp(func() (string, error) {
		return m.saveTheme(name, t)
	})
}

func (m *Manager) saveTheme(name string, t *Theme) (string, error) {
	name, err := ValidateName(name)
	if err != nil {
		return "", err
	}
	if err := t.Validate(); err != nil {
		return "", invalidFormat(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	name = m.canonical(name)
	existed, err := m.writeUser(name, t)
	if err != nil {
		m.logger.Warn("failed to save theme", "name", name, "error", err)
		return "", err
	}

	m.logger.Info("saved theme", "name", name, "path", m.userPath(name))
	if existed {
		m.notify(EventContentChanged)
	} else {
		m.notify(EventListChanged, EventContentChanged)
	}
	return name, nil
}

// RenameTheme renames a user theme. Bundled themes cannot be renamed,
// customized or not.
func (m *Manager) RenameTheme(oldName, newName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen(); err != nil {
		return err
	}

	oldName = m.canonical(oldName)
	switch m.provenance(oldName) {
	case ProvenanceUser:
	case ProvenanceCustomized:
		return fmt.Errorf("%w: %q is a customized bundled theme; restore it instead", ErrInvalidOperation, oldName)
	default:
		return fmt.Errorf("%w: no user theme %q", ErrNotFound, oldName)
	}

	newName, err := ValidateName(newName)
	if err != nil {
		return err
	}
	if containsName(m.names, newName) {
		return fmt.Errorf("%w: %q is already in use", ErrInvalidName, newName)
	}

	oldPath, newPath := m.userPath(oldName), m.userPath(newName)
	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("%w: rename %s: %w", ErrIO, oldPath, err)
	}

	delete(m.userNames, oldName)
	delete(m.userModTimes, oldName)
	m.userNames[newName] = true
	m.userModTimes[newName] = m.userModTime(newName)
	m.rebuildNames()

	m.logger.Info("renamed theme", "from", oldName, "to", newName)
	m.notify(EventListChanged)
	return nil
}

// RemoveTheme deletes a user theme file. If it shadowed a bundled theme, the
// bundled theme becomes visible again.
func (m *Manager) RemoveTheme(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen(); err != nil {
		return err
	}

	name = m.canonical(name)
	if !m.userNames[name] {
		return fmt.Errorf("%w: no user theme %q", ErrNotFound, name)
	}

	unshadowed, err := m.removeUser(name)
	if err != nil {
		return err
	}

	m.logger.Info("removed theme", "name", name)
	if unshadowed {
		m.notify(EventListChanged, EventContentChanged)
	} else {
		m.notify(EventListChanged)
	}
	return nil
}

// removeUser deletes the user file for name and drops it from the index.
// It reports whether a bundled theme of that name is visible again.
// Caller must hold m.mu.
func (m *Manager) removeUser(name string) (unshadowed bool, err error) {
	path := m.userPath(name)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Removed behind our back; bring the index and subscribers up to date.
			delete(m.userNames, name)
			delete(m.userModTimes, name)
			m.rebuildNames()
			if m.bundledNames[name] {
				m.notify(EventContentChanged)
			} else {
				m.notify(EventListChanged)
			}
			return false, fmt.Errorf("%w: %q was already removed", ErrNotFound, name)
		}
		return false, fmt.Errorf("%w: remove %s: %w", ErrIO, path, err)
	}

	delete(m.userNames, name)
	delete(m.userModTimes, name)
	m.rebuildNames()
	return m.bundledNames[name], nil
}

// RestoreTheme deletes the user override of a customized bundled theme so the
// bundled content applies again. Runs in the background.
func (m *Manager) RestoreTheme(name string) (op *Op, ok bool) {
	return m.startOp(func() (string, error) {
		return m.restoreTheme(name)
	})
}

func (m *Manager) restoreTheme(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = m.canonical(name)
	switch m.provenance(name) {
	case ProvenanceCustomized:
	case ProvenanceNone:
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	default:
		return "", fmt.Errorf("%w: %q is not a customized bundled theme", ErrInvalidOperation, name)
	}

	if _, err := m.removeUser(name); err != nil {
		m.logger.Warn("failed to restore theme", "name", name, "error", err)
		return "", err
	}

	m.logger.Info("restored bundled theme", "name", name)
	m.notify(EventContentChanged)
	return name, nil
}

// DuplicateTheme copies the effective content of name into a new user theme
// and returns the new name ("<name> copy", "<name> copy 2", ...).
func (m *Manager) DuplicateTheme(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen(); err != nil {
		return "", err
	}

	name = m.canonical(name)
	t, _, err := m.load(name)
	if err != nil {
		return "", err
	}

	newName := copyName(name, m.names)
	if _, err := ValidateName(newName); err != nil {
		return "", err
	}
	if _, err := m.writeUser(newName, t); err != nil {
		return "", err
	}

	m.logger.Info("duplicated theme", "from", name, "to", newName)
	m.notify(EventListChanged)
	return newName, nil
}

// ExportTheme writes the effective content of name to dest. The format
// follows dest's extension (.toml, .json, .yaml/.yml), defaulting to TOML.
func (m *Manager) ExportTheme(name, dest string) error {
	format, ok := FormatForPath(dest)
	if !ok {
		format = FormatTOML
	}
	return m.ExportThemeAs(name, dest, format)
}

// ExportThemeAs is ExportTheme with an explicit format.
func (m *Manager) ExportThemeAs(name, dest string, format Format) error {
	m.mu.RLock()
	if err := m.checkOpen(); err != nil {
		m.mu.RUnlock()
		return err
	}
	name = m.canonical(name)
	t, _, err := m.load(name)
	m.mu.RUnlock()
	if err != nil {
		return err
	}

	data, err := Encode(t, format)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(dest, data); err != nil {
		return fmt.Errorf("%w: export to %s: %w", ErrIO, dest, err)
	}

	m.logger.Info("exported theme", "name", name, "path", dest, "format", format)
	return nil
}

// ImportTheme reads and validates an external theme file and installs it as
// a user theme named after the file's base name. An existing theme of that
// name is only replaced when replace is true.
func (m *Manager) ImportTheme(src string, replace bool) (string, error) {
	format, ok := FormatForPath(src)
	if !ok {
		format = FormatTOML
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", ErrIO, src, err)
	}
	t, err := Decode(data, format)
	if err != nil {
		return "", fmt.Errorf("%s: %w", src, err)
	}

	base := filepath.Base(src)
	name, err := ValidateName(strings.TrimSuffix(base, filepath.Ext(base)))
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen(); err != nil {
		return "", err
	}

	name = m.canonical(name)
	if m.provenance(name) != ProvenanceNone && !replace {
		return "", fmt.Errorf("%w: %q", ErrAlreadyExists, name)
	}

	existed, err := m.writeUser(name, t)
	if err != nil {
		return "", err
	}

	m.logger.Info("imported theme", "name", name, "from", src, "replaced", existed)
	if existed {
		m.notify(EventListChanged, EventContentChanged)
	} else {
		m.notify(EventListChanged)
	}
	return name, nil
}

// CreateUntitledTheme writes a new user theme with the default colours under
// a unique "Untitled" name. The Op reports the generated name.
func (m *Manager) CreateUntitledTheme() (op *Op, ok bool) {
	return m.startOp(m.createUntitledTheme)
}

func (m *Manager) createUntitledTheme() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := DefaultTheme()
	if m.bundledNames[DefaultThemeName] {
		bundled, err := m.loadBundled(DefaultThemeName)
		if err != nil {
			m.logger.Warn("failed to load bundled default theme", "error", err)
		} else {
			t = bundled
		}
	}

	name := uniqueName(untitledBaseName, m.names)
	if _, err := m.writeUser(name, t); err != nil {
		m.logger.Warn("failed to create theme", "name", name, "error", err)
		return "", err
	}

	m.logger.Info("created theme", "name", name)
	m.notify(EventListChanged)
	return name, nil
}

// Refresh rescans both theme sets, picking up files changed by other
// programs. Subscribers get EventListChanged if the name set changed and
// EventContentChanged if a user file was added, removed or modified.
func (m *Manager) Refresh() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen(); err != nil {
		return err
	}

	names, modTimes := m.names, m.userModTimes
	if err := m.scan(); err != nil {
		return err
	}

	var events []Event
	if !slices.Equal(names, m.names) {
		events = append(events, EventListChanged)
	}
	if !maps.EqualFunc(modTimes, m.userModTimes, time.Time.Equal) {
		events = append(events, EventContentChanged)
	}
	if len(events) > 0 {
		m.logger.Debug("themes changed on disk", "count", len(m.names))
		m.notify(events...)
	}
	return nil
}

// Wait blocks until every accepted background operation has finished.
// Individual results are reported through each Op.
func (m *Manager) Wait() {
	_ = m.pending.Wait()
}

// Close stops accepting requests, waits for background operations and
// closes all subscriber channels.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	_ = m.pending.Wait()
	m.closeSubscribers()
	return nil
}
