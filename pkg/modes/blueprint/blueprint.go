// Package blueprint implements the Blueprint mode (spec.md §4.4.9): outline,
// expansion, assembly.
package blueprint

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/councilforge/deliberate/pkg/events"
	"github.com/councilforge/deliberate/pkg/gateway"
	"github.com/councilforge/deliberate/pkg/modes"
	"github.com/councilforge/deliberate/pkg/parsers"
	"github.com/councilforge/deliberate/pkg/prompts"
	"github.com/councilforge/deliberate/pkg/stage"
	"golang.org/x/sync/errgroup"
)

// Config is Blueprint's mode_config bag.
type Config struct {
	ArchitectModel string        `mapstructure:"architectModel"`
	Authors        []string      `mapstructure:"authors"`
	AssemblerModel string        `mapstructure:"assemblerModel"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 120 * time.Second
}

var _ modes.Runner = modes.RunnerFunc(Run)

// Run drives Blueprint's three phases.
func Run(ctx context.Context, req modes.Request, gw gateway.Gateway, sink events.Sink, rec *stage.Recorder) modes.Result {
	cfg, _ := req.Config.(Config)
	timeout := cfg.timeout()

	sink.Emit(events.Event{Type: events.Start("blueprint"), Data: map[string]any{
		"conversationId": req.ConversationID, "messageId": req.MessageID, "mode": "blueprint",
	}})

	sink.Emit(events.Event{Type: events.PhaseStart("outline")})
	outlineResult, ok := gw.QueryOne(ctx, cfg.ArchitectModel, prompts.BlueprintOutlinePrompt(req.Question), timeout)
	if !ok {
		return modes.Fatal(sink, "architect failed to produce an outline")
	}
	title, sections := parsers.ParseOutline(outlineResult.Content)
	if len(sections) == 0 && strings.TrimSpace(outlineResult.Content) != "" {
		sections = parsers.FallbackOutline(outlineResult.Content)
	}
	if len(sections) < 3 {
		return modes.Fatal(sink, "outline produced fewer than three sections")
	}
	sections = parsers.TruncateSections(sections)
	if title == "" {
		title = "Untitled Document"
	}
	rec.Append(stage.Record{StageType: "outline", StageOrder: rec.NextOrder(), Model: cfg.ArchitectModel, Content: outlineResult.Content, ParsedData: map[string]any{"sectionCount": len(sections)}, ResponseTimeMs: &outlineResult.ResponseTimeMs})
	sink.Emit(events.Event{Type: events.PhaseComplete("outline"), Data: map[string]any{"title": title, "sectionCount": len(sections)}})

	sink.Emit(events.Event{Type: events.PhaseStart("expansion")})
	fullOutline := renderOutline(title, sections)
	bodies := executeAuthorsPerSection(ctx, gw, cfg.Authors, sections, fullOutline, timeout, rec)
	sink.Emit(events.Event{Type: events.PhaseComplete("expansion"), Data: map[string]any{"succeeded": len(bodies)}})

	sink.Emit(events.Event{Type: events.PhaseStart("assembly")})
	var sectionBodies []string
	var missing []int
	for _, sec := range sections {
		if b, ok := bodies[sec.Number]; ok {
			sectionBodies = append(sectionBodies, b)
		} else {
			missing = append(missing, sec.Number)
		}
	}
	assembler := cfg.AssemblerModel
	if assembler == "" {
		assembler = cfg.Authors[0]
	}
	var output string
	assemblyResult, ok := gw.QueryOne(ctx, assembler, prompts.BlueprintAssemblyPrompt(title, sectionBodies), timeout)
	if ok {
		output = assemblyResult.Content
		rec.Append(stage.Record{StageType: "assembly", StageOrder: rec.NextOrder(), Model: assembler, Content: output, ResponseTimeMs: &assemblyResult.ResponseTimeMs})
	} else {
		output = fallbackAssembly(title, sections, bodies, missing)
		rec.Append(stage.Record{StageType: "assembly", StageOrder: rec.NextOrder(), Model: assembler, Content: output, ParsedData: map[string]any{"fallback": true}})
	}
	sink.Emit(events.Event{Type: events.PhaseComplete("assembly"), Data: map[string]any{"missingSections": missing}})

	return modes.Result{Output: output}
}

// executeAuthorsPerSection fans authors out in parallel, round-robin
// assigned over the section list in section order.
func executeAuthorsPerSection(ctx context.Context, gw gateway.Gateway, authors []string, sections []parsers.Section, fullOutline string, timeout time.Duration, rec *stage.Recorder) map[int]string {
	var mu sync.Mutex
	bodies := make(map[int]string, len(sections))
	order := rec.NextOrder()

	g, gctx := errgroup.WithContext(ctx)
	for i, sec := range sections {
		author := authors[i%len(authors)]
		sec := sec
		g.Go(func() error {
			result, ok := gw.QueryOne(gctx, author, prompts.BlueprintAuthorPrompt(fullOutline, sec.Title, sec.Description), timeout)
			mu.Lock()
			defer mu.Unlock()
			if !ok {
				rec.Append(stage.Record{StageType: "expansion", StageOrder: order, Model: author, Content: "", ParsedData: map[string]any{"section": sec.Number, "failed": true}})
				return nil
			}
			bodies[sec.Number] = result.Content
			rec.Append(stage.Record{StageType: "expansion", StageOrder: order, Model: author, Content: result.Content, ParsedData: map[string]any{"section": sec.Number}, ResponseTimeMs: &result.ResponseTimeMs})
			return nil
		})
	}
	_ = g.Wait()
	return bodies
}

func renderOutline(title string, sections []parsers.Section) string {
	var b strings.Builder
	fmt.Fprintf(&b, "DOCUMENT TITLE: %s\n\n", title)
	for _, sec := range sections {
		fmt.Fprintf(&b, "SECTION %d: %s\nDescription: %s\nLength: %s\n\n", sec.Number, sec.Title, sec.Description, sec.Length)
	}
	return b.String()
}

func fallbackAssembly(title string, sections []parsers.Section, bodies map[int]string, missing []int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	for _, sec := range sections {
		if body, ok := bodies[sec.Number]; ok {
			fmt.Fprintf(&b, "## Section %d\n%s\n\n", sec.Number, body)
		} else {
			fmt.Fprintf(&b, "[TODO: Section %d on %s needed]\n\n", sec.Number, sec.Title)
		}
	}
	_ = missing
	return b.String()
}
