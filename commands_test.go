package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soocke/crop-annotator/config"
)

const vocFixture = `<annotation>
  <filename>row_3.png</filename>
  <object><name>stem</name><bndbox><xmin>4</xmin><ymin>4</ymin><xmax>8</xmax><ymax>10</ymax></bndbox></object>
</annotation>`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConvertXMLCommand(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "docs")
	if err := os.WriteFile(filepath.Join(in, "row_3.xml"), []byte(vocFixture), 0o644); err != nil {
		t.Fatal(err)
	}
	stdout, err := run(t, "convert-xml", in, "-s", out)
	if err != nil {
		t.Fatalf("convert-xml: %v", err)
	}
	if !strings.Contains(stdout, "converted 1 file(s)") || !strings.Contains(stdout, "into "+out) {
		t.Fatalf("unexpected output %q", stdout)
	}
	data, err := os.ReadFile(filepath.Join(out, "row_3.json"))
	if err != nil {
		t.Fatalf("expected output document: %v", err)
	}
	if !strings.Contains(string(data), `"x": 6`) || !strings.Contains(string(data), `"y": 7`) {
		t.Fatalf("stem should be at the box center, got %s", data)
	}
}

func TestInitConfigCommand(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cfg.toml")
	if _, err := run(t, "init-config", p); err != nil {
		t.Fatalf("init-config: %v", err)
	}
	cfg, err := config.Load(p)
	if err != nil || len(cfg.Labels) != 1 {
		t.Fatalf("written config unreadable: %v %+v", err, cfg)
	}
	if _, err := run(t, "init-config", p); err == nil {
		t.Fatalf("existing file must not be overwritten")
	}
}

func TestRootCommand_RejectsBadInput(t *testing.T) {
	if _, err := run(t); err == nil {
		t.Fatalf("missing directory argument must fail")
	}
	cfgPath := filepath.Join(t.TempDir(), "c.json")
	if err := os.WriteFile(cfgPath, []byte(`{"labels":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, t.TempDir(), "--config", cfgPath); err == nil || !strings.Contains(err.Error(), "label") {
		t.Fatalf("empty label set must be fatal, got %v", err)
	}
	if _, err := run(t, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("missing image directory must fail")
	}
}
