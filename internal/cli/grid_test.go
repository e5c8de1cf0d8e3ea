package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/imagegrid/pkg/errors"
)

// fakePrompter answers from fixed values and records the questions.
type fakePrompter struct {
	answers  map[string]string
	confirm  bool
	asked    []string
	confirms []string
}

func (p *fakePrompter) Text(label, def string) (string, error) {
	p.asked = append(p.asked, label)
	if v, ok := p.answers[label]; ok {
		return v, nil
	}
	return def, nil
}

func (p *fakePrompter) Confirm(label string, def bool) (bool, error) {
	p.confirms = append(p.confirms, label)
	return p.confirm, nil
}

func writeInput(t *testing.T, dir string, names ...string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for i, name := range names {
		img := image.NewRGBA(image.Rect(0, 0, 30, 20))
		c := color.RGBA{uint8(60 * i), 100, 200, 255}
		for y := 0; y < 20; y++ {
			for x := 0; x < 30; x++ {
				img.SetRGBA(x, y, c)
			}
		}
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, img); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}
}

func runCLI(t *testing.T, p prompter, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.out = &out
	c.prompt = p

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGridCommand(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "in")
	out := filepath.Join(root, "out")
	renamed := filepath.Join(root, "renamed")
	writeInput(t, in, "a.png", "b.png", "c.png")

	summary, err := runCLI(t, nil,
		in, "-o", out, "--renamed-dir", renamed, "--project", "Test Run",
		"--width", "10", "--spacing", "2", "--label-color", "none", "-y")
	if err != nil {
		t.Fatalf("command error: %v", err)
	}

	// 3 images of 10x7 in a 2x2 grid, no label band.
	sheet := filepath.Join(out, "test-run_grid_26x20.png")
	if _, err := os.Stat(sheet); err != nil {
		t.Fatalf("grid image missing: %v", err)
	}
	for _, name := range []string{"1.png", "2.png", "3.png"} {
		if _, err := os.Stat(filepath.Join(renamed, name)); err != nil {
			t.Errorf("renamed copy %s missing: %v", name, err)
		}
	}
	if !strings.Contains(summary, sheet) {
		t.Errorf("summary does not mention %s:\n%s", sheet, summary)
	}
}

func TestGridCommandNoCopy(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "in")
	renamed := filepath.Join(root, "renamed")
	writeInput(t, in, "a.png")

	_, err := runCLI(t, nil, "-i", in, "-o", filepath.Join(root, "out"), "--renamed-dir", renamed, "--copy=false", "-y")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(renamed); !os.IsNotExist(err) {
		t.Error("renamed folder should not exist with --copy=false")
	}
}

func TestGridCommandPrompts(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "prompted")
	out := filepath.Join(root, "out")
	renamed := filepath.Join(root, "renamed")
	writeInput(t, in, "a.png", "b.png")

	p := &fakePrompter{
		answers: map[string]string{"Input folder": in, "Output folder": out},
		confirm: false,
	}
	if _, err := runCLI(t, p, "--renamed-dir", renamed, "--project", "p"); err != nil {
		t.Fatalf("command error: %v", err)
	}

	if strings.Join(p.asked, ",") != "Input folder,Output folder" {
		t.Errorf("asked %v, want input and output folders", p.asked)
	}
	if len(p.confirms) != 1 || !strings.Contains(p.confirms[0], "2 files") {
		t.Errorf("confirmations = %v, want one for 2 files", p.confirms)
	}
	matches, _ := filepath.Glob(filepath.Join(out, "p_grid_*.png"))
	if len(matches) != 1 {
		t.Errorf("found %d grid images in prompted output folder, want 1", len(matches))
	}
	if _, err := os.Stat(renamed); !os.IsNotExist(err) {
		t.Error("declined copy should not create the renamed folder")
	}
}

func TestGridCommandSkipsPromptsForGivenValues(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "in")
	writeInput(t, in, "a.png")

	p := &fakePrompter{confirm: true}
	_, err := runCLI(t, p, in, "-o", filepath.Join(root, "out"), "--renamed-dir", filepath.Join(root, "r"), "--project", "p")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.asked) != 0 {
		t.Errorf("asked %v, want no folder prompts", p.asked)
	}
	if len(p.confirms) != 1 {
		t.Errorf("confirmations = %d, want 1", len(p.confirms))
	}
}

func TestGridCommandConfigFile(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "in")
	out := filepath.Join(root, "out")
	writeInput(t, in, "a.png", "b.png")

	cfgPath := filepath.Join(root, "grid.toml")
	cfg := `input_dir = "` + filepath.ToSlash(in) + `"
output_dir = "` + filepath.ToSlash(out) + `"
project = "from config"
target_width = "none"
spacing = 0
label_color = "none"
copy_rename = false
`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, nil, "--config", cfgPath, "--spacing", "5", "-y"); err != nil {
		t.Fatalf("command error: %v", err)
	}
	// Two 30x20 images side by side, flag spacing overrides the file.
	if _, err := os.Stat(filepath.Join(out, "from-config_grid_75x30.png")); err != nil {
		t.Errorf("grid image missing: %v", err)
	}
}

func TestGridCommandEmptyFolder(t *testing.T) {
	in := t.TempDir()

	summary, err := runCLI(t, nil, in, "-o", t.TempDir(), "-y")
	if !errors.Is(err, errors.ErrCodeNoValidImages) {
		t.Errorf("error = %v, want NO_VALID_IMAGES", err)
	}
	if err != nil && strings.Contains(err.Error(), string(errors.ErrCodeNoValidImages)) {
		t.Errorf("error message %q should not carry the code", err)
	}
	if summary != "" {
		t.Errorf("no summary expected when discovery finds nothing, got:\n%s", summary)
	}
}

func TestGridCommandMissingFolder(t *testing.T) {
	_, err := runCLI(t, nil, filepath.Join(t.TempDir(), "nope"), "-y")
	if !errors.Is(err, errors.ErrCodeConfig) {
		t.Errorf("error = %v, want CONFIG_ERROR", err)
	}
}

func TestGridCommandTooManyArgs(t *testing.T) {
	if _, err := runCLI(t, nil, "a", "b", "-y"); err == nil {
		t.Error("two positional arguments should fail")
	}
}
