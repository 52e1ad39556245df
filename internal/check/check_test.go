package check

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFakeFFmpeg(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ffmpeg")
	script := `#!/bin/sh
case "$3" in
  -encoders)
    cat <<'EOF'
Encoders:
 ------
 V..... libx264              libx264 H.264
 A..... aac                  AAC (Advanced Audio Coding)
EOF
    ;;
  -decoders)
    cat <<'EOF'
Decoders:
 ------
 V..... h264                 H.264
EOF
    ;;
esac
exit 0
`
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}
	return path
}

func TestCapabilitiesMergesEncodersAndDecoders(t *testing.T) {
	bin := writeFakeFFmpeg(t)

	got, err := Capabilities(bin)
	if err != nil {
		t.Fatalf("Capabilities: %v", err)
	}

	for _, name := range []string{"libx264", "aac", "h264"} {
		if !got[name] {
			t.Fatalf("want %q available, got %v", name, got)
		}
	}
}

func TestCapabilitiesReportsMissingBinary(t *testing.T) {
	if _, err := Capabilities("mediaplan-definitely-not-on-path"); err == nil {
		t.Fatal("expected error for missing transcoder binary")
	}
}
