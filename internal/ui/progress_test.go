package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/urdwyrd/urdc/internal/compiler"
)

func TestNewProgressModelStartsAllStagesQueued(t *testing.T) {
	ch := make(chan compiler.Event)
	m := NewProgressModel("compiling world.urd.md", ch).(*progressModel)
	if len(m.rows) != len(stageOrder) {
		t.Fatalf("len(rows) = %d, want %d", len(m.rows), len(stageOrder))
	}
	for _, r := range m.rows {
		if r.status != "queued" {
			t.Errorf("stage %s status = %q, want queued", r.stage, r.status)
		}
	}
	view := m.View()
	for _, s := range stageOrder {
		if !strings.Contains(view, string(s)) {
			t.Errorf("View() missing stage %s:\n%s", s, view)
		}
	}
}

func TestApplyEventUpdatesMatchingStageOnly(t *testing.T) {
	ch := make(chan compiler.Event)
	m := NewProgressModel("compiling", ch).(*progressModel)

	m.apply(compiler.Event{Stage: compiler.StageLink, Status: compiler.StatusDone})

	if m.rows[m.index[compiler.StageLink]].status != "done" {
		t.Errorf("StageLink status = %q, want done", m.rows[m.index[compiler.StageLink]].status)
	}
	if m.rows[m.index[compiler.StageParse]].status != "queued" {
		t.Errorf("StageParse status = %q, want unaffected (queued)", m.rows[m.index[compiler.StageParse]].status)
	}
}

func TestApplyEventErrorMarksModelFailed(t *testing.T) {
	ch := make(chan compiler.Event)
	m := NewProgressModel("compiling", ch).(*progressModel)

	m.apply(compiler.Event{Stage: compiler.StageValidate, Status: compiler.StatusError})

	if !m.failed {
		t.Error("failed = false after a StatusError event, want true")
	}
	if m.rows[m.index[compiler.StageValidate]].status != "error" {
		t.Errorf("StageValidate status = %q, want error", m.rows[m.index[compiler.StageValidate]].status)
	}
}

func TestUpdateOnClosedChannelQuits(t *testing.T) {
	ch := make(chan compiler.Event)
	close(ch)
	m := NewProgressModel("compiling", ch).(*progressModel)

	next, cmd := m.Update(m.listen()())
	nm := next.(*progressModel)
	if !nm.done {
		t.Error("done = false after doneMsg, want true")
	}
	if cmd == nil {
		t.Fatal("Update(doneMsg{}) returned nil cmd, want tea.Quit")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("cmd() = %v, want tea.Quit() sentinel", msg)
	}
}
