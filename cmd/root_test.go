package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/iburimskiy/particle-floor/internal/config"
	"github.com/iburimskiy/particle-floor/internal/device"
)

func parse(t *testing.T, args ...string) config.Params {
	t.Helper()
	cmd, o := newRootCmd()
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	p, err := resolve(cmd, o, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestResolveDefaults(t *testing.T) {
	p := parse(t, "--device", "desktop")
	if p.Device != device.Desktop || !p.PostProcessing || p.Keyboard || p.Raycast || p.Debug {
		t.Errorf("params = %+v", p)
	}
	if p.Size.Width != config.WindowWidth || p.Size.Height != config.WindowHeight {
		t.Errorf("size = %+v", p.Size)
	}
	if p.Name != config.ProjectName {
		t.Errorf("name = %q", p.Name)
	}
}

func TestResolvePhone(t *testing.T) {
	p := parse(t, "--device", "Phone", "--width", "390", "--height", "844")
	if p.Device != device.Phone {
		t.Fatalf("device = %q", p.Device)
	}
	if p.Mouse || !p.Touch {
		t.Errorf("phone input mouse=%v touch=%v", p.Mouse, p.Touch)
	}
	if p.Vignette.Reduction != config.VignetteReductionCompact {
		t.Errorf("reduction = %v", p.Vignette.Reduction)
	}
}

func TestResolveFlags(t *testing.T) {
	p := parse(t, "--device", "desktop", "--no-postprocessing", "--keyboard", "--raycast", "--debug", "--title", "floor")
	if p.PostProcessing || !p.Keyboard || !p.Raycast || !p.Debug || p.Name != "floor" {
		t.Errorf("params = %+v", p)
	}
}

func TestResolveSettingsPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	body := `{"keyboard": true, "raycast": true, "noise_amount": 0.1, "repeat": 3}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	p := parse(t, "--device", "desktop", "--settings", path, "--raycast=false")
	if !p.Keyboard {
		t.Error("settings keyboard not applied")
	}
	if p.Raycast {
		t.Error("explicit flag should win over settings")
	}
	if p.Noise.Amount != 0.1 || p.Floor.Repeat != 3 {
		t.Errorf("tunables = %+v %+v", p.Noise, p.Floor)
	}
}

func TestResolveRejectsSize(t *testing.T) {
	cmd, o := newRootCmd()
	if err := cmd.ParseFlags([]string{"--width", "0"}); err != nil {
		t.Fatal(err)
	}
	if _, err := resolve(cmd, o, zap.NewNop()); err == nil {
		t.Error("zero width accepted")
	}
}

func TestPrintParams(t *testing.T) {
	cmd, o := newRootCmd()
	if err := cmd.ParseFlags([]string{"--device", "tablet"}); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := printParams(cmd, o); err != nil {
		t.Fatal(err)
	}
	var got config.Params
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("%v: %s", err, out.String())
	}
	if got.Device != device.Tablet || !got.Mouse {
		t.Errorf("printed %+v", got)
	}
}
