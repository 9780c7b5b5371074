package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"adapterctl/internal/adapters"
	"adapterctl/internal/manage"
	"adapterctl/internal/state"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeAPI struct {
	mu         sync.Mutex
	list       []adapters.Adapter
	err        error
	configured []string
	removed    []string
	pinged     []string
}

func (f *fakeAPI) Sync(ctx context.Context) ([]adapters.Adapter, error) {
	return f.list, f.err
}

func (f *fakeAPI) Configure(ctx context.Context, location string) ([]adapters.Adapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configured = append(f.configured, location)
	return f.list, f.err
}

func (f *fakeAPI) Remove(ctx context.Context, location string) ([]adapters.Adapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, location)
	return f.list, f.err
}

func (f *fakeAPI) Ping(ctx context.Context, location string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pinged = append(f.pinged, location)
	return f.err
}

type fakeFetcher struct {
	available  []adapters.Option
	configured []adapters.Option
}

func (f *fakeFetcher) FetchAvailable(ctx context.Context) ([]adapters.Option, error) {
	return f.available, nil
}

func (f *fakeFetcher) FetchConfigured(ctx context.Context) ([]adapters.Option, error) {
	return f.configured, nil
}

func intPtr(n int) *int { return &n }

func testAdapters() []adapters.Adapter {
	return []adapters.Adapter{
		{
			Name:     "meshery-istio",
			Version:  "v0.6.0",
			Location: "localhost:10000",
			Port:     "10000",
			Ops: []adapters.Operation{
				{Key: "istio_vet", Value: "Analyze Running Configuration", Category: intPtr(3)},
				{Key: "istio_install", Value: "Latest Istio"},
			},
		},
		{Name: "meshery-linkerd", Version: "v0.5.0", Location: "localhost:10001", Port: "10001"},
	}
}

func testState() state.State {
	return state.State{
		Adapters: testAdapters(),
		Available: []adapters.Option{
			{Value: "10000", Label: "meshery-istio:10000", Pingable: true},
			{Value: "10001", Label: "meshery-linkerd:10001"},
		},
		Configured: []adapters.Option{
			{Value: "meshery-istio", Label: "meshery-istio:10000", Pingable: true},
		},
	}
}

func newTestModel(t *testing.T, api *fakeAPI, opts ...Option) Model {
	t.Helper()
	store := state.NewStore(testState())
	fetcher := &fakeFetcher{available: testState().Available, configured: testState().Configured}
	ctrl := manage.New(store, api, fetcher)
	return NewModel(context.Background(), ctrl, opts...)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends keys in order and returns the model and the last command
func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

// run executes cmd and feeds its message back into the model
func run(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Msg) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	next, _ := m.Update(msg)
	return next.(Model), msg
}

func TestPaneNavigation(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})

	if m.pane != PaneAvailable {
		t.Fatalf("initial pane = %v, want available", m.pane)
	}

	m, _ = press(m, "j", "j", "j")
	if m.cursors[PaneAvailable] != 1 {
		t.Errorf("cursor = %d, want 1 (clamped to list end)", m.cursors[PaneAvailable])
	}
	m, _ = press(m, "k", "k")
	if m.cursors[PaneAvailable] != 0 {
		t.Errorf("cursor = %d, want 0", m.cursors[PaneAvailable])
	}

	tests := []struct {
		presses int
		want    Pane
	}{
		{1, PaneConfigured},
		{2, PaneAdapters},
		{3, PaneAvailable},
	}
	for _, tt := range tests {
		got, _ := press(m, strings.Split(strings.Repeat("tab,", tt.presses-1)+"tab", ",")...)
		if got.pane != tt.want {
			t.Errorf("after %d tabs pane = %v, want %v", tt.presses, got.pane, tt.want)
		}
	}
}

func TestEnterConfiguresOption(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		opts   []Option
		wantAt string
	}{
		{
			name:   "available option on default probe host",
			keys:   []string{"enter"},
			wantAt: "localhost:10000",
		},
		{
			name:   "available option on custom probe host",
			keys:   []string{"j", "enter"},
			opts:   []Option{WithProbeHost("mesh.local")},
			wantAt: "mesh.local:10001",
		},
		{
			name:   "configured option uses its label",
			keys:   []string{"tab", "enter"},
			wantAt: "meshery-istio:10000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{list: testAdapters()}
			m := newTestModel(t, api, tt.opts...)

			m, cmd := press(m, tt.keys...)
			m, msg := run(t, m, cmd)

			done, ok := msg.(ActionDoneMsg)
			if !ok || done.Action != "configure" || done.Err != nil {
				t.Fatalf("msg = %#v, want successful configure", msg)
			}
			if len(api.configured) != 1 || api.configured[0] != tt.wantAt {
				t.Errorf("configured = %v, want [%s]", api.configured, tt.wantAt)
			}
			if !strings.Contains(m.View(), manage.MsgConfigured) {
				t.Errorf("view does not show %q", manage.MsgConfigured)
			}
		})
	}
}

func TestAddLocationForm(t *testing.T) {
	api := &fakeAPI{list: testAdapters()}
	m := newTestModel(t, api)

	m, _ = press(m, "a")
	if m.viewState != ViewForm || m.formKind != FormLocation {
		t.Fatalf("viewState = %v kind = %v, want location form", m.viewState, m.formKind)
	}

	m, cmd := press(m, "http://bad", "enter")
	if cmd != nil || m.formErr == "" {
		t.Fatalf("invalid location accepted: formErr=%q", m.formErr)
	}
	if m.viewState != ViewForm {
		t.Errorf("form closed on invalid input")
	}

	m, _ = press(m, "esc", "a")
	m, cmd = press(m, "http://mesh.local:10002/", "enter")
	if m.viewState != ViewConfig {
		t.Errorf("viewState = %v, want config view", m.viewState)
	}
	_, _ = run(t, m, cmd)
	if len(api.configured) != 1 || api.configured[0] != "mesh.local:10002" {
		t.Errorf("configured = %v", api.configured)
	}
}

func TestRemoveConfirm(t *testing.T) {
	api := &fakeAPI{list: testAdapters()[1:]}
	m := newTestModel(t, api)

	// delete is a no-op outside the adapter list
	m, _ = press(m, "d")
	if m.viewState != ViewConfig {
		t.Fatalf("delete opened dialog outside the adapter list")
	}

	m, _ = press(m, "tab", "tab", "d")
	if m.viewState != ViewRemove || m.pendingRemove.Location != "localhost:10000" {
		t.Fatalf("viewState = %v pending = %q", m.viewState, m.pendingRemove.Location)
	}
	if !strings.Contains(m.View(), "localhost:10000") {
		t.Error("confirm dialog does not name the location")
	}

	m, cmd := press(m, "n")
	if cmd != nil || m.viewState != ViewConfig {
		t.Fatalf("cancel did not close the dialog")
	}

	m, cmd = press(m, "d", "y")
	m, _ = run(t, m, cmd)
	if len(api.removed) != 1 || api.removed[0] != "localhost:10000" {
		t.Errorf("removed = %v", api.removed)
	}
	if len(m.snap.Adapters) != 1 {
		t.Errorf("adapters = %d, want list replaced by server response", len(m.snap.Adapters))
	}
	if m.cursors[PaneAdapters] != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursors[PaneAdapters])
	}
}

func TestPingChip(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantOK  bool
		wantMsg string
	}{
		{"success", nil, true, manage.MsgPinged},
		{"failure", errors.New("boom"), false, "Adapter was not pinged due to an error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{err: tt.err}
			m := newTestModel(t, api)

			m, cmd := press(m, "tab", "tab", "j", "p")
			m, msg := run(t, m, cmd)

			done := msg.(PingDoneMsg)
			if done.OK != tt.wantOK || done.Location != "localhost:10001" {
				t.Errorf("ping = %+v", done)
			}
			if len(m.snap.Adapters) != 2 {
				t.Errorf("ping changed the adapter list")
			}
			if !strings.Contains(m.View(), tt.wantMsg) {
				t.Errorf("view does not show %q", tt.wantMsg)
			}
		})
	}
}

func TestSelectChipOpensPlayView(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})

	m, cmd := press(m, "tab", "tab", "enter")
	m, _ = run(t, m, cmd)

	if m.viewState != ViewPlay {
		t.Fatalf("viewState = %v, want play", m.viewState)
	}
	if m.snap.SelectedPort != "10000" || m.snap.CurrentAdapter != "meshery-istio" {
		t.Errorf("selection = %q/%q", m.snap.SelectedPort, m.snap.CurrentAdapter)
	}

	view := m.View()
	for _, want := range []string{"Install", "Validation", "Latest Istio", "Meshery Adapter for Istio (v0.6.0)"} {
		if !strings.Contains(view, want) {
			t.Errorf("play view missing %q", want)
		}
	}
	if strings.Index(view, "Install") > strings.Index(view, "Validation") {
		t.Error("categories not in ascending order")
	}
}

func TestPlayViewNavigate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPort string
		wantErr  bool
		formErr  bool
	}{
		{name: "known port", input: "10001", wantPort: "10001"},
		{name: "unknown port", input: "12345", wantErr: true},
		{name: "not a port", input: "abc", formErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, &fakeAPI{}, WithStartView(ViewPlay))

			m, _ = press(m, "/", tt.input, "enter")

			if tt.formErr {
				if m.viewState != ViewForm || m.formErr == "" {
					t.Fatalf("viewState = %v formErr = %q, want form error", m.viewState, m.formErr)
				}
				return
			}
			if m.viewState != ViewPlay {
				t.Fatalf("viewState = %v, want play", m.viewState)
			}
			if m.snap.SelectedPort != tt.wantPort {
				t.Errorf("selected = %q, want %q", m.snap.SelectedPort, tt.wantPort)
			}
			if (m.errorMsg != "") != tt.wantErr {
				t.Errorf("errorMsg = %q", m.errorMsg)
			}
		})
	}
}

func TestPlayViewSelector(t *testing.T) {
	m := newTestModel(t, &fakeAPI{}, WithStartView(ViewPlay))

	if !strings.Contains(m.View(), "No adapter selected") {
		t.Error("empty play view hint missing")
	}

	m, cmd := press(m, "j", "enter")
	m, _ = run(t, m, cmd)
	if m.snap.SelectedPort != "10001" {
		t.Errorf("selected = %q, want 10001", m.snap.SelectedPort)
	}
	if !strings.Contains(m.View(), "no operations") {
		t.Error("adapter without operations not reported")
	}

	m, _ = press(m, "esc")
	if m.viewState != ViewConfig {
		t.Errorf("esc did not return to config view")
	}
}

func TestStateChangedClampsCursors(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})
	m, _ = press(m, "j", "tab", "tab", "j")

	next, _ := m.Update(StateChangedMsg{State: state.State{}})
	m = next.(Model)

	for p := Pane(0); p < paneCount; p++ {
		if m.cursors[p] != 0 {
			t.Errorf("pane %d cursor = %d, want 0", p, m.cursors[p])
		}
	}
	if !strings.Contains(m.View(), "No available adapters") {
		t.Error("empty available list not rendered")
	}
}

func TestExpireTickDropsNotifications(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := now
	store := state.NewStore(testState())
	ctrl := manage.New(store, &fakeAPI{}, &fakeFetcher{}, manage.WithClock(func() time.Time { return clock }))
	m := NewModel(context.Background(), ctrl)

	m, cmd := press(m, "tab", "tab", "p")
	m, _ = run(t, m, cmd)
	if len(m.snap.Notifications) != 1 {
		t.Fatalf("notifications = %d, want 1", len(m.snap.Notifications))
	}

	next, _ := m.Update(expireTickMsg(now.Add(time.Second)))
	m = next.(Model)
	if len(m.snap.Notifications) != 1 {
		t.Fatalf("notification expired early")
	}

	clock = now.Add(manage.SuccessDismiss)
	next, _ = m.Update(expireTickMsg(clock))
	m = next.(Model)
	if len(m.snap.Notifications) != 0 {
		t.Errorf("notifications = %d, want 0 after %s", len(m.snap.Notifications), manage.SuccessDismiss)
	}
}

func TestDismissKey(t *testing.T) {
	m := newTestModel(t, &fakeAPI{err: errors.New("down")})
	m, cmd := press(m, "tab", "tab", "p")
	m, _ = run(t, m, cmd)

	m, _ = press(m, "x")
	if len(m.snap.Notifications) != 0 {
		t.Errorf("notifications = %d after dismiss", len(m.snap.Notifications))
	}
}

func TestProgressIndicator(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})
	if strings.Contains(m.View(), "working") {
		t.Error("progress shown while idle")
	}

	next, _ := m.Update(StateChangedMsg{State: state.State{InProgress: 1}})
	m = next.(Model)
	if !strings.Contains(m.View(), "working") {
		t.Error("progress not shown while an action is in flight")
	}
}

func TestInitialQuery(t *testing.T) {
	api := &fakeAPI{list: testAdapters()}
	m := newTestModel(t, api, WithInitialQuery("10001"))
	if m.viewState != ViewPlay {
		t.Fatalf("viewState = %v, want play", m.viewState)
	}

	msg := refreshCmd(m.ctx, m.ctrl, m.initialQuery)()
	next, _ := m.Update(msg)
	m = next.(Model)

	if m.snap.SelectedPort != "10001" {
		t.Errorf("selected = %q, want 10001", m.snap.SelectedPort)
	}
}

func TestHelpAndQuit(t *testing.T) {
	m := newTestModel(t, &fakeAPI{})

	m, _ = press(m, "?")
	if m.viewState != ViewHelp {
		t.Fatalf("viewState = %v, want help", m.viewState)
	}
	if !strings.Contains(m.View(), "refresh") {
		t.Error("help view does not list bindings")
	}

	m, _ = press(m, "q")
	if m.viewState != ViewConfig {
		t.Fatalf("q in help did not return to config view")
	}

	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestValidateFormValue(t *testing.T) {
	tests := []struct {
		kind    FormKind
		value   string
		want    string
		wantErr bool
	}{
		{FormLocation, " localhost:10000 ", "localhost:10000", false},
		{FormLocation, "10.0.0.5:10002", "10.0.0.5:10002", false},
		{FormLocation, "", "", true},
		{FormLocation, "localhost", "", true},
		{FormLocation, "http://localhost:10000/", "localhost:10000", false},
		{FormLocation, "meshery-linkerd", "localhost:10001", false},
		{FormLocation, "no-such-adapter", "", true},
		{FormLocation, "localhost:99999", "", true},
		{FormNavigate, "10000", "10000", false},
		{FormNavigate, "mesh:10000", "mesh:10000", false},
		{FormNavigate, "0", "", true},
		{FormNavigate, "port", "", true},
	}

	for _, tt := range tests {
		got, err := ValidateFormValue(tt.kind, tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormValue(%d, %q) error = %v, wantErr %v", tt.kind, tt.value, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ValidateFormValue(%d, %q) = %q, want %q", tt.kind, tt.value, got, tt.want)
		}
	}
}
