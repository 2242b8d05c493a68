package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// --- Mock implementations for pipeline testing ---

// mockChannel serves files from memory and records moves and deliveries.
type mockChannel struct {
	files      map[string]string
	fetchErr   error
	moveErr    error
	deliverErr error

	moves     []string
	delivered []string
	closed    bool
}

func (m *mockChannel) Fetch(_ context.Context, _ string, localDir string) ([]string, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	paths := make([]string, 0, len(names))
	for _, name := range names {
		p := filepath.Join(localDir, name)
		if err := os.WriteFile(p, []byte(m.files[name]), 0o644); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func (m *mockChannel) Deliver(_ context.Context, localPath, destDir, name string) (string, error) {
	if m.deliverErr != nil {
		return "", m.deliverErr
	}
	if _, err := os.Stat(localPath); err != nil {
		return "", err
	}
	dest := destDir + "/" + name
	m.delivered = append(m.delivered, dest)
	return dest, nil
}

func (m *mockChannel) Move(_ context.Context, _, name, localCopy, destDir string) error {
	if _, err := os.Stat(localCopy); err != nil {
		return err
	}
	if m.moveErr != nil {
		return m.moveErr
	}
	m.moves = append(m.moves, destDir+"/"+name)
	return nil
}

func (m *mockChannel) Close() error {
	m.closed = true
	return nil
}

type mockTransfers struct {
	ch    *mockChannel
	err   error
	opens int
}

func (m *mockTransfers) Open(context.Context, domain.FlowDefinition) (driven.TransferChannel, error) {
	m.opens++
	if m.err != nil {
		return nil, m.err
	}
	return m.ch, nil
}

// mockAPI answers requests from a script; the last entry repeats.
type mockAPI struct {
	script   []domain.APIResponse
	err      error
	requests []driven.APIRequest
}

func (m *mockAPI) Send(_ context.Context, req driven.APIRequest) (domain.APIResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return domain.APIResponse{}, m.err
	}
	i := len(m.requests) - 1
	if i >= len(m.script) {
		i = len(m.script) - 1
	}
	resp := m.script[i]
	if resp.Attempts == 0 {
		resp.Attempts = 1
	}
	if !resp.OK() {
		return resp, fmt.Errorf("%w: status %d", domain.ErrAPIRequest, resp.StatusCode)
	}
	return resp, nil
}

type mockNotifier struct {
	sent []domain.Notification
	err  error
}

func (m *mockNotifier) Send(_ context.Context, n domain.Notification) error {
	m.sent = append(m.sent, n)
	return m.err
}

type mockAudit struct {
	events []domain.AuditEvent
	err    error
}

func (m *mockAudit) Record(_ context.Context, e domain.AuditEvent) error {
	m.events = append(m.events, e)
	return m.err
}

func (m *mockAudit) Close() error { return nil }

type mockMetrics struct {
	runs []domain.RunSummary
}

func (m *mockMetrics) RecordRun(_ context.Context, s domain.RunSummary) error {
	m.runs = append(m.runs, s)
	return nil
}

type mockResolver struct {
	converters map[string]driven.Converter
}

func (m *mockResolver) Resolve(flow domain.FlowDefinition) (driven.Converter, error) {
	c, ok := m.converters[flow.Converter]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrConverterNotRegistered, flow.Converter)
	}
	return c, nil
}

func (m *mockResolver) Names() []string { return nil }

// orderConverter writes one order document per input file, referencing
// the input's first line, and fails on inputs containing "BAD".
var orderConverter = driven.ConverterFunc(func(_ context.Context, in, outDir string) ([]domain.Artifact, error) {
	data, err := os.ReadFile(in)
	if err != nil {
		return nil, err
	}
	if strings.Contains(string(data), "BAD") {
		return nil, fmt.Errorf("%w: bad record", domain.ErrInvalidInput)
	}
	ref := strings.TrimSpace(strings.SplitN(string(data), "\n", 2)[0])
	out := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))+".json")
	doc := fmt.Sprintf(`{"orders":[{"owner_reference":%q}]}`, ref)
	if err := os.WriteFile(out, []byte(doc), 0o644); err != nil {
		return nil, err
	}
	return []domain.Artifact{{Path: out, Rows: 1}}, nil
})

// testConfig returns a configuration rooted at a temp dir.
func testConfig(t *testing.T) *domain.Config {
	t.Helper()
	dir := t.TempDir()
	return &domain.Config{
		Path:    filepath.Join(dir, "config.yaml"),
		Globals: domain.Globals{BaseURL: "https://api.example.com/v1"},
	}
}

func readDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
