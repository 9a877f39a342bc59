package cli

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/ccreverse/pkg/config"
	"github.com/matzehuels/ccreverse/pkg/errors"
)

// isolate runs the test in an empty directory with no ccreverse environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{config.EnvSource, config.EnvSourceLegacy, config.EnvOutput} {
		t.Setenv(key, "")
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// writeBuild lays out a build with settings.js and a single unreferenced image.
func writeBuild(t *testing.T, dir string) string {
	t.Helper()
	src := filepath.Join(dir, "build")
	settings := filepath.Join(src, "src", "settings.js")
	img := filepath.Join(src, "res", "raw-assets", "ab", "splash.png")
	for _, p := range []string{settings, img} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(settings, []byte(`window._CCSettings={launchScene:"db://assets/Main.fire"};`), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(img)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return src
}

func TestUUIDCommands(t *testing.T) {
	isolate(t)
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"uuid", "decode", "fcmR3XADNLgJ1ByKhqcC5Z"}, "fc991dd7-0033-4b80-9d41-c8a86a702e59\n"},
		{[]string{"uuid", "encode", "fc991dd7-0033-4b80-9d41-c8a86a702e59"}, "fcmR3XADNLgJ1ByKhqcC5Z\n"},
		{[]string{"uuid", "compress", "fc991dd7-0033-4b80-9d41-c8a86a702e59"}, "fc9913XADNLgJ1ByKhqcC5Z\n"},
		{[]string{"uuid", "expand", "fc9913XADNLgJ1ByKhqcC5Z"}, "fc991dd7-0033-4b80-9d41-c8a86a702e59\n"},
		{
			[]string{"uuid", "decode", "fcmR3XADNLgJ1ByKhqcC5Z", "2bbzoQnE5NIY8Kd+XB0rOk"},
			"fc991dd7-0033-4b80-9d41-c8a86a702e59\n2b6f3a10-9c4e-4d21-8f0a-77e5c1d2b3a4\n",
		},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args[:2], " "), func(t *testing.T) {
			got, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("execute() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUUIDInvalid(t *testing.T) {
	isolate(t)
	out, err := execute(t, "uuid", "decode", "fcmR3XADNLgJ1ByKhqcC5Z", "not-an-id")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("error = %v, want INVALID_INPUT", err)
	}
	if out != "" {
		t.Errorf("output = %q, want nothing before validation passes", out)
	}
}

func TestGraphFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"textures.dot", "dot", false},
		{"out/Textures.SVG", "svg", false},
		{"textures.png", "", true},
		{"textures", "", true},
	}
	for _, tt := range tests {
		got, err := graphFormat(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("graphFormat(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("graphFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestReverseOptionsPrecedence(t *testing.T) {
	dir := isolate(t)
	cfg := "source = \"from-config\"\n\n[output]\nprettify = false\n\n[assets]\nextract_audio = false\n"
	if err := os.WriteFile(filepath.Join(dir, config.DefaultFile), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	cmd := c.reverseCommand()
	if err := cmd.ParseFlags([]string{"--prettify=true", "-o", "recovered"}); err != nil {
		t.Fatal(err)
	}
	flags := reverseFlags{output: "recovered", prettify: true, maxParallel: 9}

	opts, err := c.reverseOptions(cmd, nil, flags)
	if err != nil {
		t.Fatalf("reverseOptions() error = %v", err)
	}
	if opts.Source != "from-config" {
		t.Errorf("Source = %q, want from-config", opts.Source)
	}
	if !opts.Prettify {
		t.Error("Prettify should come from the flag")
	}
	if !opts.SkipAudio {
		t.Error("SkipAudio should come from the config")
	}
	if opts.Output != "recovered" {
		t.Errorf("Output = %q", opts.Output)
	}
	if opts.MaxParallel != 4 {
		t.Errorf("MaxParallel = %d, unset flag must not override", opts.MaxParallel)
	}

	opts, err = c.reverseOptions(cmd, []string{"from-arg"}, flags)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Source != "from-arg" {
		t.Errorf("Source = %q, want from-arg", opts.Source)
	}
}

func TestReverseOptionsEnv(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvSource, "from-env")

	c := New(io.Discard, LogInfo)
	opts, err := c.reverseOptions(c.reverseCommand(), nil, reverseFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Source != "from-env" {
		t.Errorf("Source = %q, want from-env", opts.Source)
	}
}

func TestReverseWithoutSource(t *testing.T) {
	isolate(t)
	_, err := execute(t, "reverse")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("error = %v, want INVALID_INPUT", err)
	}
}

func TestReverseBadGraphPath(t *testing.T) {
	dir := isolate(t)
	src := writeBuild(t, dir)
	_, err := execute(t, "reverse", src, "--graph", "textures.png")
	if err == nil {
		t.Fatal("expected an error for an unsupported graph extension")
	}
}

func TestReverse(t *testing.T) {
	dir := isolate(t)
	src := writeBuild(t, dir)
	out := filepath.Join(dir, "recovered")

	if _, err := execute(t, "reverse", src, "-o", out); err != nil {
		t.Fatalf("reverse error = %v", err)
	}
	for _, rel := range []string{"project.json", "assets/Picture/splash.png", "assets/Picture/splash.png.meta"} {
		if _, err := os.Stat(filepath.Join(out, rel)); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}
}

func TestReverseDryRun(t *testing.T) {
	dir := isolate(t)
	src := writeBuild(t, dir)
	out := filepath.Join(dir, "recovered")

	if _, err := execute(t, "reverse", src, "-o", out, "--dry-run"); err != nil {
		t.Fatalf("reverse error = %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("dry run created %s", out)
	}
}

func TestGraphCommand(t *testing.T) {
	dir := isolate(t)
	src := writeBuild(t, dir)

	got, err := execute(t, "graph", src)
	if err != nil {
		t.Fatalf("graph error = %v", err)
	}
	if !strings.Contains(got, "digraph") || !strings.Contains(got, "splash.png") {
		t.Errorf("graph output = %q", got)
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		got, err := execute(t, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s error = %v", shell, err)
		}
		if !strings.Contains(got, "ccreverse") {
			t.Errorf("completion %s output does not mention ccreverse", shell)
		}
	}
}

func TestFlagCompletion(t *testing.T) {
	isolate(t)
	got, err := execute(t, "__complete", "graph", "build", "--format", "")
	if err != nil {
		t.Fatalf("__complete error = %v", err)
	}
	for _, want := range []string{"dot", "svg"} {
		if !strings.Contains(got, want) {
			t.Errorf("completions %q missing %s", got, want)
		}
	}
}
