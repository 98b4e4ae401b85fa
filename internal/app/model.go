package app

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/voicevista/voicevista/internal/api"
	"github.com/voicevista/voicevista/internal/download"
	"github.com/voicevista/voicevista/internal/router"
	"github.com/voicevista/voicevista/internal/session"
	"github.com/voicevista/voicevista/internal/theme"
	"github.com/voicevista/voicevista/internal/transcript"
	"github.com/voicevista/voicevista/internal/ui"
)

// Deps are the stores and clients the TUI runs against.
type Deps struct {
	Context        context.Context
	Client         *api.Client
	Session        *session.Store
	Theme          *theme.Store
	Downloader     *download.Downloader
	Cache          *transcript.Cache
	PollInterval   time.Duration
	DashboardLimit int
	StartPath      string
	Logger         zerolog.Logger
}

// confirmKind identifies what a pending y/n prompt will do.
type confirmKind int

const (
	confirmDelete confirmKind = iota
	confirmDeleteAll
)

type confirmation struct {
	kind   confirmKind
	id     int64
	prompt string
}

// Model is the root bubbletea model for the VoiceVista TUI.
type Model struct {
	deps   Deps
	ctx    context.Context
	route  router.Route
	styles ui.Styles

	width  int
	height int

	// Status line
	errorMessage string
	notice       string
	statusSeq    int

	// Shared transcription list
	records    transcript.List
	listLoaded bool
	loading    bool
	cachedAt   time.Time

	// Polling (dashboard only)
	pollGen int
	polling bool

	// Profile
	profile       api.User
	profileLoaded bool

	// Auth pages
	loginForm    form
	registerForm form
	submitting   bool

	// Dashboard
	dashCursor    int
	uploadEditing bool
	uploadInput   field
	pendingUpload string
	pendingInfo   string
	uploading     bool

	// History
	histCursor  int
	options     map[int64]transcript.Options
	downloading map[int64]bool

	// Result
	result       transcript.Record
	resultLoaded bool
	resultErr    string
	resultScroll int
	player       player

	// Settings
	settings settingsState

	confirm *confirmation
}

// New creates a Model and resolves the starting route against the session.
func New(deps Deps) Model {
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.PollInterval <= 0 {
		deps.PollInterval = transcript.DefaultPollInterval
	}
	if deps.StartPath == "" {
		deps.StartPath = router.PathRoot
	}

	m := Model{
		deps:        deps,
		ctx:         deps.Context,
		styles:      ui.NewStyles(deps.Theme.Palette()),
		options:     make(map[int64]transcript.Options),
		downloading: make(map[int64]bool),
		uploadInput: newField("Audio file ", false),
	}
	m.resetAuthForms()
	m.route = router.Resolve(deps.StartPath, deps.Session.Authenticated())
	m.prepareRoute()
	return m
}

// Init returns the commands that load the starting page.
func (m Model) Init() tea.Cmd {
	return m.routeCmds()
}

// Route returns the current route.
func (m Model) Route() router.Route {
	return m.route
}

// Records returns the shared transcription list.
func (m Model) Records() transcript.List {
	return m.records
}

// Polling reports whether a poll chain is active.
func (m Model) Polling() bool {
	return m.polling
}

// Error returns the current error line, if any.
func (m Model) Error() string {
	return m.errorMessage
}

// Notice returns the current notice line, if any.
func (m Model) Notice() string {
	return m.notice
}

// navigate resolves path against the session, tears down page-owned work,
// and returns the commands that load the destination.
func (m Model) navigate(path string) (Model, tea.Cmd) {
	route := router.Resolve(path, m.deps.Session.Authenticated())
	if m.route.Page == router.PageDashboard && route.Page != router.PageDashboard {
		m.stopPolling()
	}
	if m.route.Page == router.PageResult {
		m.player.playing = false
		m.player.gen++
	}
	m.deps.Logger.Debug().Str("from", m.route.Path).Str("requested", path).Str("to", route.Path).Msg("navigate")

	m.route = route
	m.confirm = nil
	m.uploadEditing = false
	m.prepareRoute()
	return m, m.routeCmds()
}

// prepareRoute resets page-local state for the current route.
func (m *Model) prepareRoute() {
	switch m.route.Page {
	case router.PageLogin, router.PageRegister:
		m.submitting = false
		m.resetAuthForms()
	case router.PageResult:
		m.result = transcript.Record{}
		m.resultLoaded = false
		m.resultErr = ""
		m.resultScroll = 0
		m.player = player{}
		if m.route.ID == 0 {
			m.resultErr = "No transcription selected."
		}
	case router.PageSettings:
		u := m.profile
		if !m.profileLoaded {
			u, _ = m.deps.Session.User()
		}
		m.settings = newSettingsState(u)
	}
}

// routeCmds returns the loads for the current route. It does not mutate the
// model so Init can use it.
func (m Model) routeCmds() tea.Cmd {
	switch m.route.Page {
	case router.PageDashboard:
		return tea.Batch(
			profileCmd(m.ctx, m.deps.Client),
			cachedTranscriptionsCmd(m.ctx, m.deps.Cache, m.owner()),
			transcriptionsCmd(m.ctx, m.deps.Client, m.deps.Cache, m.owner(), false, m.pollGen),
		)
	case router.PageHistory:
		return transcriptionsCmd(m.ctx, m.deps.Client, m.deps.Cache, m.owner(), false, m.pollGen)
	case router.PageSettings:
		return profileCmd(m.ctx, m.deps.Client)
	case router.PageResult:
		if m.route.ID > 0 {
			return transcriptionCmd(m.ctx, m.deps.Client, m.route.ID)
		}
	}
	return nil
}

func (m Model) owner() string {
	u, _ := m.deps.Session.User()
	return ownerKey(u)
}

func (m *Model) stopPolling() {
	m.pollGen++
	m.polling = false
}

// maybeStartPolling begins a poll chain when the dashboard shows a
// processing record and no chain is running.
func (m *Model) maybeStartPolling() tea.Cmd {
	if m.polling || m.route.Page != router.PageDashboard || !m.records.AnyProcessing() {
		return nil
	}
	m.polling = true
	return pollTickCmd(m.pollGen, m.deps.PollInterval)
}

func (m *Model) setError(msg string) tea.Cmd {
	m.errorMessage = msg
	m.notice = ""
	m.statusSeq++
	return clearStatusCmd(m.statusSeq)
}

func (m *Model) setNotice(msg string) tea.Cmd {
	m.notice = msg
	m.errorMessage = ""
	m.statusSeq++
	return clearStatusCmd(m.statusSeq)
}

// sessionExpiredHint follows a 401 raised while signed in.
const sessionExpiredHint = "Your session may have expired. Press L to log out and sign in again."

func (m *Model) setErr(err error) tea.Cmd {
	if api.IsUnauthorized(err) && m.deps.Session.Authenticated() {
		return m.setError(api.Message(err) + " " + sessionExpiredHint)
	}
	return m.setError(api.Message(err))
}

func (m Model) downloadOptions(id int64) transcript.Options {
	if o, ok := m.options[id]; ok {
		return o
	}
	return transcript.DefaultOptions()
}

// editing reports whether a text input owns the keyboard.
func (m Model) editing() bool {
	switch m.route.Page {
	case router.PageLogin, router.PageRegister:
		return true
	case router.PageDashboard:
		return m.uploadEditing
	case router.PageSettings:
		return m.settings.editing
	}
	return false
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case LoggedInMsg:
		m.submitting = false
		if msg.Err != nil {
			return m, m.setErr(msg.Err)
		}
		m.profile = msg.User
		m.profileLoaded = false
		m.errorMessage = ""
		return m.navigate(router.PathRoot)

	case RegisteredMsg:
		m.submitting = false
		if msg.Err != nil {
			return m, m.setErr(msg.Err)
		}
		var cmd tea.Cmd
		m, cmd = m.navigate(router.PathLogin)
		return m, tea.Batch(cmd, m.setNotice(msg.Message+" Please log in to continue."))

	case LoggedOutMsg:
		m.records = nil
		m.listLoaded = false
		m.profile = api.User{}
		m.profileLoaded = false
		m.options = make(map[int64]transcript.Options)
		m.stopPolling()
		var cmd tea.Cmd
		m, cmd = m.navigate(router.PathLogin)
		if msg.Err != nil {
			return m, tea.Batch(cmd, m.setErr(msg.Err))
		}
		return m, cmd

	case ProfileLoadedMsg:
		if msg.Err != nil {
			if m.route.Page == router.PageSettings {
				return m, m.setErr(msg.Err)
			}
			m.deps.Logger.Warn().Err(msg.Err).Msg("load profile")
			return m, nil
		}
		m.profile = msg.User
		m.profileLoaded = true
		if m.route.Page == router.PageSettings && !m.settings.dirty && !m.settings.editing {
			m.settings = newSettingsState(msg.User)
		}
		return m, nil

	case CachedTranscriptionsMsg:
		if m.listLoaded {
			return m, nil
		}
		m.records = msg.Records
		m.cachedAt = msg.FetchedAt
		m.clampCursors()
		return m, nil

	case TranscriptionsLoadedMsg:
		return m.handleTranscriptions(msg)

	case PollTickMsg:
		if msg.Gen != m.pollGen || m.route.Page != router.PageDashboard {
			return m, nil
		}
		return m, transcriptionsCmd(m.ctx, m.deps.Client, m.deps.Cache, m.owner(), true, msg.Gen)

	case TranscriptionLoadedMsg:
		if m.route.Page != router.PageResult || m.route.ID != msg.ID {
			return m, nil
		}
		m.resultLoaded = true
		if msg.Err != nil {
			m.resultErr = api.Message(msg.Err)
			return m, nil
		}
		m.result = msg.Record
		m.player = newPlayer(msg.Record.Duration)
		return m, nil

	case UploadedMsg:
		m.uploading = false
		if msg.Err != nil {
			return m, m.setError("File upload failed: " + api.Message(msg.Err))
		}
		m.pendingUpload = ""
		m.pendingInfo = ""
		m.records = m.records.Prepend(transcript.Provisional(msg.Response.FileID, msg.Title, time.Now()))
		m.dashCursor = 0
		return m, tea.Batch(m.setNotice("Upload complete. Transcription started."), m.maybeStartPolling())

	case DeletedMsg:
		if msg.Err != nil {
			return m, m.setError("Failed to delete transcription: " + api.Message(msg.Err))
		}
		m.records = m.records.Remove(msg.ID)
		delete(m.options, msg.ID)
		m.clampCursors()
		if m.route.Page == router.PageResult && m.route.ID == msg.ID {
			var cmd tea.Cmd
			m, cmd = m.navigate(router.PathHistory)
			return m, tea.Batch(cmd, m.setNotice("Transcription deleted."))
		}
		return m, m.setNotice("Transcription deleted.")

	case DeletedAllMsg:
		if msg.Err != nil {
			return m, m.setError("Failed to delete all transcriptions: " + api.Message(msg.Err))
		}
		m.records = nil
		m.options = make(map[int64]transcript.Options)
		m.clampCursors()
		return m, m.setNotice("All transcriptions deleted.")

	case DownloadedMsg:
		delete(m.downloading, msg.ID)
		if msg.Err != nil {
			if errors.Is(msg.Err, download.ErrInFlight) {
				return m, nil
			}
			return m, m.setError("Error downloading transcription: " + api.Message(msg.Err))
		}
		return m, m.setNotice("Saved " + msg.Result.Path + " (" + msg.Result.Size() + ")")

	case SettingsSavedMsg:
		m.settings.saving = false
		if msg.Err != nil {
			m.deps.Logger.Warn().Err(msg.Err).Msg("save settings")
			return m, m.setError("Error saving settings. Please try again.")
		}
		m.profile = msg.User
		m.settings = newSettingsState(msg.User)
		return m, m.setNotice("Your settings have been saved successfully!")

	case AvatarUploadedMsg:
		m.settings.uploadingAvatar = false
		if msg.Err != nil {
			m.deps.Logger.Warn().Err(msg.Err).Msg("upload avatar")
			return m, m.setError("Error uploading avatar. Please try again.")
		}
		m.profile.AvatarURL = msg.User.AvatarURL
		m.settings.avatarURL = msg.User.AvatarURL
		m.settings.avatarInput.SetValue("")
		return m, m.setNotice("Avatar updated successfully!")

	case ThemeChangedMsg:
		if msg.Err != nil {
			return m, m.setErr(msg.Err)
		}
		m.styles = ui.NewStyles(theme.PaletteFor(msg.Mode))
		return m, nil

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.errorMessage = ""
			m.notice = ""
		}
		return m, nil

	case PlayerTickMsg:
		if m.route.Page != router.PageResult || msg.Gen != m.player.gen {
			return m, nil
		}
		if m.player.tick() {
			return m, playerTickCmd(m.player.gen)
		}
		return m, nil
	}

	return m, nil
}

// handleTranscriptions applies a list fetch and keeps the poll chain going
// while any record is processing.
func (m Model) handleTranscriptions(msg TranscriptionsLoadedMsg) (tea.Model, tea.Cmd) {
	current := msg.FromPoll && msg.Gen == m.pollGen
	if !msg.FromPoll {
		m.loading = false
	}

	if msg.Err != nil {
		if msg.FromPoll {
			m.deps.Logger.Warn().Err(msg.Err).Msg("poll transcriptions")
			if current && m.route.Page == router.PageDashboard {
				return m, pollTickCmd(m.pollGen, m.deps.PollInterval)
			}
			return m, nil
		}
		return m, m.setErr(msg.Err)
	}

	m.records = m.records.Reconcile(msg.Records)
	m.listLoaded = true
	m.cachedAt = time.Time{}
	m.clampCursors()

	if current {
		if m.route.Page == router.PageDashboard && m.records.AnyProcessing() {
			return m, pollTickCmd(m.pollGen, m.deps.PollInterval)
		}
		m.polling = false
		return m, nil
	}
	return m, m.maybeStartPolling()
}

func (m *Model) clampCursors() {
	dashLen := len(m.records.Limit(m.deps.DashboardLimit))
	m.dashCursor = clamp(m.dashCursor, 0, max(0, dashLen-1))
	m.histCursor = clamp(m.histCursor, 0, max(0, len(m.records)-1))
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == KeyCtrlC {
		return m, tea.Quit
	}

	if m.confirm != nil {
		return m.handleConfirmKey(key)
	}

	if !m.editing() {
		switch key {
		case KeyQuit:
			return m, tea.Quit
		case KeyTheme:
			return m, toggleThemeCmd(m.deps.Theme)
		}
		if m.deps.Session.Authenticated() {
			switch key {
			case KeyDashboard:
				return m.navigate(router.PathRoot)
			case KeyHistory:
				return m.navigate(router.PathHistory)
			case KeySettings:
				return m.navigate(router.PathSettings)
			case KeyLogout:
				return m, logoutCmd(m.ctx, m.deps.Session, m.deps.Cache, m.owner())
			}
		}
	}

	switch m.route.Page {
	case router.PageLogin:
		return m.handleLoginKey(msg)
	case router.PageRegister:
		return m.handleRegisterKey(msg)
	case router.PageDashboard:
		return m.handleDashboardKey(msg)
	case router.PageHistory:
		return m.handleHistoryKey(msg)
	case router.PageResult:
		return m.handleResultKey(msg)
	case router.PageSettings:
		return m.handleSettingsKey(msg)
	}
	return m, nil
}

func (m Model) handleConfirmKey(key string) (tea.Model, tea.Cmd) {
	c := m.confirm
	m.confirm = nil
	switch key {
	case KeyYes, "Y":
		switch c.kind {
		case confirmDelete:
			return m, deleteCmd(m.ctx, m.deps.Client, c.id)
		case confirmDeleteAll:
			return m, deleteAllCmd(m.ctx, m.deps.Client)
		}
	}
	return m, nil
}

func (m Model) startDownload(rec transcript.Record) (Model, tea.Cmd) {
	if !rec.Completed() {
		return m, m.setError("Only completed transcriptions can be downloaded.")
	}
	if m.downloading[rec.ID] || m.deps.Downloader.InFlight(rec.ID) {
		return m, m.setNotice("Download already in progress.")
	}
	m.downloading[rec.ID] = true
	opts := m.downloadOptions(rec.ID)
	return m, downloadCmd(m.ctx, m.deps.Downloader, rec, opts)
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, m.styles.Divider.Render(strings.Repeat("─", m.width)))

	var body string
	switch m.route.Page {
	case router.PageLogin:
		body = m.viewLogin()
	case router.PageRegister:
		body = m.viewRegister()
	case router.PageDashboard:
		body = m.viewDashboard()
	case router.PageHistory:
		body = m.viewHistory()
	case router.PageResult:
		body = m.viewResult()
	case router.PageSettings:
		body = m.viewSettings()
	}
	sections = append(sections, body)

	sections = append(sections, m.styles.Divider.Render(strings.Repeat("─", m.width)))
	if m.confirm != nil {
		sections = append(sections, m.styles.Error.Render(m.confirm.prompt)+" "+m.styles.FooterHint(KeyYes+"/"+KeyNo, ""))
	} else if m.errorMessage != "" {
		sections = append(sections, m.renderErrorBar())
	} else if m.notice != "" {
		sections = append(sections, m.styles.Success.Render(m.notice))
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("VOICEVISTA")

	var nav []string
	if m.deps.Session.Authenticated() {
		items := []struct {
			label string
			page  router.Page
		}{
			{"Dashboard", router.PageDashboard},
			{"History", router.PageHistory},
			{"Settings", router.PageSettings},
		}
		for _, it := range items {
			if m.route.Page == it.page {
				nav = append(nav, m.styles.NavItemActive.Render(it.label))
			} else {
				nav = append(nav, m.styles.NavItem.Render(it.label))
			}
		}
	}

	icon := "☀ light"
	if m.deps.Theme.Mode() == theme.Dark {
		icon = "☾ dark"
	}
	right := m.styles.ThemeToggle.Render(icon)
	if u, ok := m.deps.Session.User(); ok {
		right = m.styles.Dim.Render(u.DisplayName()) + "  " + right
	}

	left := title
	if len(nav) > 0 {
		left += "  " + strings.Join(nav, "  ")
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left + " " + right
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderErrorBar() string {
	return m.styles.Error.Render("Error: ") + m.styles.ErrorText.Render(m.errorMessage)
}

func (m Model) renderFooter() string {
	s := m.styles
	var parts []string

	switch m.route.Page {
	case router.PageLogin, router.PageRegister:
		parts = append(parts, s.FooterHint("Tab", "Next"), s.FooterHint("Enter", "Submit"))
		if m.route.Page == router.PageLogin {
			parts = append(parts, s.FooterHint("^R", "Register"))
		} else {
			parts = append(parts, s.FooterHint("^R", "Login"))
		}
		parts = append(parts, s.FooterHint("^C", "Quit"))
		return strings.Join(parts, "  ")
	case router.PageDashboard:
		if m.uploadEditing {
			return strings.Join([]string{s.FooterHint("Enter", "Select"), s.FooterHint("Esc", "Cancel")}, "  ")
		}
		if m.pendingUpload != "" {
			parts = append(parts, s.FooterHint("Enter", "Start"), s.FooterHint("Esc", "Remove"))
		} else {
			parts = append(parts, s.FooterHint("u", "Upload"), s.FooterHint("Enter", "View"))
		}
		parts = append(parts, s.FooterHint("x", "Delete"), s.FooterHint("X", "Delete all"))
	case router.PageHistory:
		parts = append(parts, s.FooterHint("Enter", "View"), s.FooterHint("f", "Format"),
			s.FooterHint("l", "Lang"), s.FooterHint("D", "Download"), s.FooterHint("x", "Delete"),
			s.FooterHint("X", "Delete all"))
	case router.PageResult:
		parts = append(parts, s.FooterHint("D", "Download"), s.FooterHint("f/l", "Format/Lang"),
			s.FooterHint("Space", "Play"), s.FooterHint("←→", "Skip"), s.FooterHint("b", "Back"))
	case router.PageSettings:
		if m.settings.editing {
			return strings.Join([]string{s.FooterHint("Enter", "Done"), s.FooterHint("Esc", "Cancel")}, "  ")
		}
		parts = append(parts, s.FooterHint("j/k", "Move"), s.FooterHint("Enter", "Edit"), s.FooterHint("^S", "Save"))
	}

	parts = append(parts, s.FooterHint("d/h/s", "Pages"), s.FooterHint("t", "Theme"),
		s.FooterHint("L", "Logout"), s.FooterHint("q", "Quit"))
	return strings.Join(parts, "  ")
}

func (m Model) bodyHeight() int {
	if m.height == 0 {
		return 20
	}
	// header, two dividers, status, footer
	return max(5, m.height-5)
}

// Helpers

func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncateToWidth(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if used+w > width-1 {
			break
		}
		b.WriteRune(r)
		used += w
	}
	return b.String() + "…"
}

// splitToWidth hard-breaks a word into pieces no wider than width cells.
func splitToWidth(word string, width int) []string {
	if lipgloss.Width(word) <= width {
		return []string{word}
	}
	var pieces []string
	var b strings.Builder
	used := 0
	for _, r := range word {
		w := lipgloss.Width(string(r))
		if used+w > width && used > 0 {
			pieces = append(pieces, b.String())
			b.Reset()
			used = 0
		}
		b.WriteRune(r)
		used += w
	}
	if b.Len() > 0 {
		pieces = append(pieces, b.String())
	}
	return pieces
}

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		used := 0
		for _, word := range strings.Fields(paragraph) {
			for _, piece := range splitToWidth(word, width) {
				w := lipgloss.Width(piece)
				switch {
				case current == "":
					current, used = piece, w
				case used+1+w <= width:
					current += " " + piece
					used += 1 + w
				default:
					lines = append(lines, current)
					current, used = piece, w
				}
			}
		}
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// window returns the [start, end) slice of n items that keeps cursor
// visible in height rows.
func window(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height + 1
	if start < 0 {
		start = 0
	}
	end := start + height
	if end > n {
		end = n
		start = end - height
	}
	return start, end
}
