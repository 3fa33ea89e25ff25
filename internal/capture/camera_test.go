package capture

import (
	"os"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"
)

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantFPS int
	}{
		{
			name:    "default config",
			config:  DefaultConfig(),
			wantFPS: DefaultFPS,
		},
		{
			name:    "zero config falls back",
			config:  Config{},
			wantFPS: DefaultFPS,
		},
		{
			name:    "custom rate",
			config:  Config{DeviceID: 1, Width: 640, Height: 480, FPS: 12},
			wantFPS: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.config)

			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
			if cam.IsOpen() {
				t.Error("camera should not be open before Open()")
			}
		})
	}
}

func TestNewCamera_DefaultSize(t *testing.T) {
	cam := NewCamera(Config{Width: 0, Height: 480}).(*deviceCamera)

	if cam.config.Width != 1280 || cam.config.Height != 720 {
		t.Errorf("size = %dx%d, want 1280x720", cam.config.Width, cam.config.Height)
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(DefaultConfig())

	tests := []struct {
		name    string
		fps     int
		wantFPS int
	}{
		{"set to 10", 10, 10},
		{"set to 30", 30, 30},
		{"set to 1", 1, 1},
		{"zero keeps previous", 0, 1},
		{"negative keeps previous", -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetFPS(tt.fps)
			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
		})
	}
}

func TestCamera_NotOpened(t *testing.T) {
	cam := NewCamera(DefaultConfig())

	if _, err := cam.ReadFrame(); err != ErrCameraNotOpen {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("Close() on unopened camera = %v, want nil", err)
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(DefaultConfig())
	if err := cam.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else {
		t.Logf("frame size %dx%d", mat.Cols(), mat.Rows())
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}

func TestReadImage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires OpenCV codecs")
	}

	src := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer src.Close()
	path := filepath.Join(t.TempDir(), "alif_01.png")
	if !gocv.IMWrite(path, src) {
		t.Fatal("IMWrite failed")
	}

	mat, err := ReadImage(path)
	if err != nil {
		t.Fatalf("ReadImage() error = %v", err)
	}
	defer mat.Close()

	if mat.Cols() != 64 || mat.Rows() != 48 {
		t.Errorf("size = %dx%d, want 64x48", mat.Cols(), mat.Rows())
	}
}

func TestReadImage_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.jpg")
	if err := os.WriteFile(path, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadImage(path); err == nil {
		t.Error("ReadImage() should fail for a corrupt file")
	}
}
