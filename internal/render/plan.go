package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/yuin/goldmark"

	"github.com/mindquest/coach/internal/content"
	"github.com/mindquest/coach/internal/session"
)

//go:embed plan.html.tmpl
var planHTML string

var planTemplate = template.Must(template.New("plan").Parse(planHTML))

// Plan writes p in the requested format. reg supplies titles and summaries.
func Plan(w io.Writer, format Format, reg *content.Registry, p *session.Plan) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, p)
	case FormatHTML:
		return planTemplate.Execute(w, newPlanPage(reg, p))
	default:
		_, err := lipgloss.Fprint(w, PlanText(reg, p))
		return err
	}
}

// PlanText renders p as styled terminal text.
func PlanText(reg *content.Registry, p *session.Plan) string {
	var b strings.Builder

	tmplName := string(p.TemplateID)
	if t, err := reg.Template(p.TemplateID); err == nil {
		tmplName = t.Name
	}
	moduleName := string(p.ModuleID)
	if m, err := reg.Module(p.ModuleID); err == nil {
		moduleName = m.Name
	}

	b.WriteString(titleStyle.Render(tmplName + " · " + moduleName))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d min", p.ExpectedDurationMinutes)))
	b.WriteString("\n")
	if p.RunID != "" {
		b.WriteString(dimStyle.Render("run " + p.RunID))
		b.WriteString("\n")
	}
	if p.AlreadyCompleted {
		b.WriteString(goodStyle.Render("Today's run is already complete."))
		b.WriteString(dimStyle.Render(" The next session is shown for preview."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, blk := range p.Blocks {
		fmt.Fprintf(&b, "%2d. %s", i+1, kindStyle.Render(blk.Kind.DisplayName()))
		switch blk.Kind {
		case content.BlockLesson, content.BlockElective:
			b.WriteString(lessonTitle(reg, blk.LessonID))
			b.WriteString(dimStyle.Render(" (" + string(blk.LessonID) + ")"))
		case content.BlockRecall:
			for _, prompt := range blk.Prompts {
				b.WriteString("\n      - " + prompt)
			}
		}
		b.WriteString("\n")
	}

	if p.Exhausted {
		b.WriteString("\n")
		b.WriteString(goodStyle.Render(fmt.Sprintf("Every lesson in %s is complete.", moduleName)))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Reset the module or pick another one to keep going."))
		b.WriteString("\n")
	}
	if res := p.Debug.Resolution; res != nil && res.IsFallback() {
		b.WriteString("\n")
		msg := "No mindpacing tag given; using the default module."
		if res.NormalizedTag != "" {
			msg = fmt.Sprintf("Tag %q is not recognised; using the default module.", res.NormalizedTag)
		}
		b.WriteString(noticeStyle.Render(msg))
		b.WriteString("\n")
	}
	return b.String()
}

func lessonTitle(reg *content.Registry, id content.LessonID) string {
	if l, ok := reg.Lesson(id); ok {
		return l.Title
	}
	return string(id)
}

type planPage struct {
	Title    string
	Module   string
	Minutes  int
	RunID    string
	Blocks   []planPageBlock
	Finished bool
	Done     bool
}

type planPageBlock struct {
	Kind    string
	Title   string
	Summary template.HTML
	Prompts []string
}

func newPlanPage(reg *content.Registry, p *session.Plan) planPage {
	page := planPage{
		Title:    string(p.TemplateID),
		Module:   string(p.ModuleID),
		Minutes:  p.ExpectedDurationMinutes,
		RunID:    p.RunID,
		Finished: p.Exhausted,
		Done:     p.AlreadyCompleted,
	}
	if t, err := reg.Template(p.TemplateID); err == nil {
		page.Title = t.Name
	}
	if m, err := reg.Module(p.ModuleID); err == nil {
		page.Module = m.Name
	}
	for _, blk := range p.Blocks {
		pb := planPageBlock{Kind: blk.Kind.DisplayName(), Prompts: blk.Prompts}
		if blk.Kind == content.BlockLesson || blk.Kind == content.BlockElective {
			pb.Title = lessonTitle(reg, blk.LessonID)
			if l, ok := reg.Lesson(blk.LessonID); ok && l.Summary != "" {
				pb.Summary = renderMarkdown(l.Summary)
			}
		}
		page.Blocks = append(page.Blocks, pb)
	}
	return page
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}
