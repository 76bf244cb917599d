package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/protplot/protplot/internal/config"
)

const sampleGFF = "##gff-version 3\n" +
	"ProtA\tsrc\tpolypeptide\t1\t400\t.\t.\t.\tID=ProtA\n" +
	"ProtA\tsrc\tprotein_match\t10\t50\t.\t+\t.\tName=Kinase\n" +
	"ProtB\tsrc\tpolypeptide\t1\t250\t.\t.\t.\tID=ProtB\n" +
	"ProtB\tsrc\tprotein_match\t30\t90\t.\t+\t.\tName=SH2\n"

func testServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Config{Tools: AllTools, Settings: config.DefaultConfig()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.gff")
	if err := os.WriteFile(path, []byte(sampleGFF), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func callReq(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func TestNew_UsesProvidedSettings(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Render.Shape = "oval"
	cfg.Render.FigureWidth = 480

	s, err := New(Config{Settings: cfg})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s.cfg != cfg {
		t.Error("expected the server to use the injected config")
	}
	if s.cfg.Render.Shape != "oval" {
		t.Errorf("expected injected shape, got %s", s.cfg.Render.Shape)
	}
}

func TestHandleParse(t *testing.T) {
	s := testServer(t)
	path := writeSample(t)

	res, err := s.handleParse(context.Background(), callReq("protplot_parse", map[string]any{
		"path": path,
	}))
	if err != nil {
		t.Fatalf("handleParse failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("expected success, got error result: %+v", res)
	}

	text := resultText(t, res)
	for _, want := range []string{"ProtA", "ProtB", "Kinase", "SH2"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in listing:\n%s", want, text)
		}
	}
}

func TestHandleRender_InlineSVG(t *testing.T) {
	s := testServer(t)
	path := writeSample(t)

	res, err := s.handleRender(context.Background(), callReq("protplot_render", map[string]any{
		"path":     path,
		"proteins": "ProtA,ProtB",
	}))
	if err != nil {
		t.Fatalf("handleRender failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("expected success, got error result: %+v", res)
	}
	if !strings.Contains(resultText(t, res), "<svg") {
		t.Error("expected inline SVG in result")
	}
}

// Renders must not observe concurrent color overrides mid-draw: the
// handler snapshots the shared assignment under the lock, so mixed
// render and set_color traffic stays safe under the race detector.
func TestRenderDuringColorOverride(t *testing.T) {
	s := testServer(t)
	path := writeSample(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			res, err := s.handleRender(context.Background(), callReq("protplot_render", map[string]any{
				"path":     path,
				"proteins": "ProtA,ProtB",
			}))
			if err != nil {
				t.Errorf("handleRender failed: %v", err)
				return
			}
			if res.IsError {
				t.Errorf("render returned error result: %+v", res)
			}
		}()
		go func(i int) {
			defer wg.Done()
			res, err := s.handleSetColor(context.Background(), callReq("protplot_set_color", map[string]any{
				"domain": "Kinase",
				"color":  fmt.Sprintf("#ff00%02x", i),
			}))
			if err != nil {
				t.Errorf("handleSetColor failed: %v", err)
				return
			}
			if res.IsError {
				t.Errorf("set_color returned error result: %+v", res)
			}
		}(i)
	}
	wg.Wait()
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	var sb strings.Builder
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}
