package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/fibre/pkg/layout"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the node tree and the ops of the last presented frame.
type Snapshot struct {
	Tree       *TreeNode   `json:"tree"`
	DisplayOps []DisplayOp `json:"displayOps,omitempty"`
}

// TreeNode represents a node in the serialized node tree. Identities are
// replaced with stable type-based IDs so snapshots do not depend on
// allocation order.
type TreeNode struct {
	ID       string      `json:"id"`
	Type     string      `json:"type"`
	Size     [2]float64  `json:"size"`
	Offset   [2]float64  `json:"offset"`
	Children []*TreeNode `json:"children,omitempty"`
}

// CaptureSnapshot captures the current node tree with the layouts of the
// last frame, relative to each parent, and the last presented frame.
func (t *Tester) CaptureSnapshot() *Snapshot {
	counter := &typeCounter{}
	return &Snapshot{
		Tree:       t.captureNode(t.fibre.Root(), counter),
		DisplayOps: SerializeDisplayList(t.LastFrame()),
	}
}

func (t *Tester) captureNode(node layout.NodeID, counter *typeCounter) *TreeNode {
	typeName := "container"
	if node == t.fibre.Root() {
		typeName = "root"
	}
	if c, ok := t.fibre.Registry().Get(node); ok {
		typeName = componentTypeName(c)
	}
	box, _ := t.fibre.Tree().LayoutOf(node)

	out := &TreeNode{
		ID:     counter.next(typeName),
		Type:   typeName,
		Size:   [2]float64{round2(box.Size.Width), round2(box.Size.Height)},
		Offset: [2]float64{round2(box.Position.X), round2(box.Position.Y)},
	}
	for _, child := range t.fibre.Tree().Children(node) {
		out.Children = append(out.Children, t.captureNode(child, counter))
	}
	return out
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When FIBRE_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("FIBRE_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: FIBRE_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: FIBRE_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff reports the differences between other (expected) and this snapshot
// as a cmp diff, "-" lines expected and "+" lines actual. Returns an empty
// string if they are equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	got, err := genericSnapshot(s)
	if err != nil {
		return fmt.Sprintf("encode actual snapshot: %v", err)
	}
	want, err := genericSnapshot(other)
	if err != nil {
		return fmt.Sprintf("encode expected snapshot: %v", err)
	}
	return cmp.Diff(want, got)
}

// --- Internal ---

// typeCounter assigns stable IDs like "Box#0", "Box#1".
type typeCounter struct {
	counts map[string]int
}

func (c *typeCounter) next(typeName string) string {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	n := c.counts[typeName]
	c.counts[typeName] = n + 1
	return fmt.Sprintf("%s#%d", typeName, n)
}

func componentTypeName(c any) string {
	t := reflect.TypeOf(c)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

// genericSnapshot round-trips s through JSON so that a captured snapshot
// and one loaded from disk compare and encode identically.
func genericSnapshot(s *Snapshot) (any, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return generic, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	generic, err := genericSnapshot(s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(generic); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
