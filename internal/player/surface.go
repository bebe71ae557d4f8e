// Package player renders playback through external processes: a native
// media player for streams and direct files, the system browser for
// embeddable providers and opaque links.
package player

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"github.com/mmarder/screener/internal/domain"
)

// candidatePlayers defines the preferred native player order per platform.
var candidatePlayers = map[string][]string{
	"darwin":  {"iina", "vlc", "mpv"},
	"linux":   {"mpv", "celluloid", "vlc"},
	"windows": {"vlc", "mpv"},
}

// Surface implements playback.PlayerSurface by launching external processes.
type Surface struct {
	command string   // configured player command, empty for auto-detect
	args    []string // additional player arguments
	logger  *slog.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd // running native player, if any
	tmpPath string    // spooled stream file, if any
}

// NewSurface creates a new external-process surface.
func NewSurface(command string, args []string, logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.Default()
	}
	return &Surface{command: command, args: args, logger: logger}
}

// AttachBinary spools a platform-hosted stream to a temporary file and hands
// it to the native player. The handle remains owned by the caller.
func (s *Surface) AttachBinary(handle *domain.BinaryHandle, kind domain.MediaKind) error {
	tmp, err := os.CreateTemp("", "screener-*"+mediaExt(handle.ContentType, kind))
	if err != nil {
		return fmt.Errorf("failed to create spool file: %w", err)
	}
	if _, err := io.Copy(tmp, handle); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to spool stream: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to finish spool file: %w", err)
	}

	if err := s.attach(tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	s.mu.Lock()
	s.tmpPath = tmp.Name()
	s.mu.Unlock()
	return nil
}

// AttachMedia plays a direct media URL in the native player.
func (s *Surface) AttachMedia(url string, kind domain.MediaKind) error {
	return s.attach(url)
}

// AttachEmbed opens an embeddable player URL in the system browser. Opaque
// links land here too; the browser is the fallback surface.
func (s *Surface) AttachEmbed(url string) error {
	s.logger.Info("opening embed in browser", "url", url)
	return openDefault(url)
}

// OpenExternal opens a URL outside the surface, in a fresh browser window.
func (s *Surface) OpenExternal(url string) error {
	s.logger.Info("opening externally", "url", url)
	return openDefault(url)
}

// Detach stops the running player, if any, and removes the spool file.
// Detaching twice is a no-op.
func (s *Surface) Detach() {
	s.mu.Lock()
	cmd := s.cmd
	tmpPath := s.tmpPath
	s.cmd = nil
	s.tmpPath = ""
	s.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}
	if tmpPath != "" {
		_ = os.Remove(tmpPath)
	}
}

// attach launches the native player on a URL or file path, replacing any
// previous attachment first.
func (s *Surface) attach(target string) error {
	s.Detach()

	// Tier 1: user configured a specific player
	if s.command != "" {
		return s.launch(s.command, target)
	}

	// Tier 2: candidate chain for the platform
	candidates, ok := candidatePlayers[runtime.GOOS]
	if !ok {
		candidates = candidatePlayers["linux"]
	}
	for _, name := range candidates {
		if _, err := exec.LookPath(name); err != nil {
			continue
		}
		if err := s.launch(name, target); err == nil {
			return nil
		}
	}

	// Tier 3: system default handler
	s.logger.Info("no native player found, using system default", "target", target)
	return openDefault(target)
}

func (s *Surface) launch(command, target string) error {
	args := append(append([]string{}, s.args...), target)
	cmd := exec.Command(command, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", command, err)
	}
	s.logger.Info("launched player", "command", command, "target", target)
	s.mu.Lock()
	s.cmd = cmd
	s.mu.Unlock()
	return nil
}

// openDefault opens a URL or file with the OS default handler.
func openDefault(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	return cmd.Start()
}

// mediaExt picks a spool-file extension so the player recognizes the format.
func mediaExt(contentType string, kind domain.MediaKind) string {
	switch contentType {
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "audio/ogg", "application/ogg":
		return ".ogg"
	case "audio/mpeg":
		return ".mp3"
	}
	if kind == domain.MediaKindAudio {
		return ".audio"
	}
	return ".video"
}
