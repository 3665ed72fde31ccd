package prompt

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/xonecas/nestcall/internal/treesitter"
)

var params = []treesitter.Parameter{
	{Name: "id", Type: "number"},
	{Name: "filter", Type: "string", Optional: true},
}

func special(name string) tea.KeyPressMsg {
	switch name {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	default:
		return tea.KeyPressMsg{}
	}
}

func TestEscapeCancels(t *testing.T) {
	m := New("$(Svc).find", params, DefaultColors)
	a, _ := m.HandleMsg(special("esc"))
	if _, ok := a.(ActionCancel); !ok {
		t.Fatalf("expected ActionCancel, got %T", a)
	}
}

func TestEnterAdvancesThroughParams(t *testing.T) {
	m := New("$(Svc).find", params, DefaultColors)

	m.input.SetValue("42")
	a, _ := m.HandleMsg(special("enter"))
	if a != nil {
		t.Fatalf("expected no action after first value, got %T", a)
	}
	if !strings.HasPrefix(m.input.Prompt, "filter?: string") {
		t.Errorf("prompt = %q, want label for second parameter", m.input.Prompt)
	}

	a, _ = m.HandleMsg(special("enter"))
	done, ok := a.(ActionDone)
	if !ok {
		t.Fatalf("expected ActionDone, got %T", a)
	}
	if len(done.Values) != 2 || done.Values[0] != "42" || done.Values[1] != "" {
		t.Errorf("values = %q", done.Values)
	}
}

func TestRenderShowsLabels(t *testing.T) {
	m := New("await $(Svc).find", params, DefaultColors)
	m.input.SetValue("7")
	m.HandleMsg(special("enter"))

	out := ansi.Strip(m.render())
	for _, want := range []string{"await $(Svc).find", "id: number = 7", "filter?: string > ", "2/2"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestUpdateQuitsOnDone(t *testing.T) {
	m := New("$(Svc).ping", params[:1], DefaultColors)
	m.input.SetValue("1")
	next, cmd := m.Update(special("enter"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := next.(Model).result.(ActionDone); !ok {
		t.Fatalf("expected ActionDone result, got %T", next.(Model).result)
	}
}

func TestCollectorsWithoutParams(t *testing.T) {
	vals, err := Interactive{}.Collect(context.Background(), "x", nil)
	if err != nil || vals != nil {
		t.Fatalf("Interactive.Collect(nil) = %v, %v", vals, err)
	}

	vals, err = Static{"1", "2"}.Collect(context.Background(), "x", params)
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 2 || vals[0] != "1" {
		t.Errorf("Static.Collect = %q", vals)
	}
}
