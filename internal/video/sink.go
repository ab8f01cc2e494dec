// Package video bridges the pull-based frame renderer to the push-based
// encoder. The FrameSink interface keeps frame generation unit-testable
// independent of the ffmpeg process.
package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"os"
	"os/exec"
	"path/filepath"
)

// FrameSink consumes rendered frames and produces the encoded video blob.
// An interrupted render must call Abort instead of Finish so the encoder
// process is reaped and its temp files removed.
type FrameSink interface {
	Push(img image.Image) error
	Finish(ctx context.Context) ([]byte, error)
	Abort()
}

// SinkOptions configures an encoder sink.
type SinkOptions struct {
	Width         int
	Height        int
	FPS           int
	NarrationPath string // optional single narration track, muxed -shortest
	Bitrate       string // e.g. "2M"; empty uses the default
}

// FFmpegSink encodes raw RGBA frames from stdin to VP8-in-WebM. Encoder
// failure is fatal for the render: there is no partial-result recovery.
type FFmpegSink struct {
	cmd     *exec.Cmd
	stdin   *os.File
	stderr  bytes.Buffer
	tmpDir  string
	outPath string
	frames  int
	failed  error
	reaped  bool
}

// NewFFmpegSink starts the encoder process.
func NewFFmpegSink(ctx context.Context, opts SinkOptions) (*FFmpegSink, error) {
	if opts.Bitrate == "" {
		opts.Bitrate = "2M"
	}

	tmpDir, err := os.MkdirTemp("", "pinehill_render_")
	if err != nil {
		return nil, err
	}
	outPath := filepath.Join(tmpDir, "out.webm")

	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-framerate", fmt.Sprintf("%d", opts.FPS),
		"-i", "-",
	}
	if opts.NarrationPath != "" {
		args = append(args, "-i", opts.NarrationPath)
	}
	args = append(args,
		"-c:v", "libvpx",
		"-b:v", opts.Bitrate,
		"-pix_fmt", "yuv420p",
	)
	if opts.NarrationPath != "" {
		args = append(args, "-c:a", "libvorbis", "-shortest")
	}
	args = append(args, "-f", "webm", outPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	pr, pw, err := os.Pipe()
	if err != nil {
		os.RemoveAll(tmpDir)
		return nil, err
	}
	cmd.Stdin = pr
	s := &FFmpegSink{cmd: cmd, stdin: pw, tmpDir: tmpDir, outPath: outPath}
	cmd.Stderr = &s.stderr

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	pr.Close()
	return s, nil
}

// Push writes one raw RGBA frame to the encoder.
func (s *FFmpegSink) Push(img image.Image) error {
	if s.failed != nil {
		return s.failed
	}

	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	// Проверяем, что изображение уже RGBA со стандартным шагом строки.
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	if _, err := s.stdin.Write(rgba.Pix); err != nil {
		s.failed = fmt.Errorf("write raw frame error: %w", err)
		return s.failed
	}
	s.frames++
	return nil
}

// Finish closes the frame stream, waits out the encoder and returns the
// encoded blob.
func (s *FFmpegSink) Finish(ctx context.Context) ([]byte, error) {
	defer os.RemoveAll(s.tmpDir)

	s.stdin.Close()
	s.reaped = true
	if err := s.cmd.Wait(); err != nil {
		return nil, fmt.Errorf("ffmpeg encode error: %v, log: %s", err, s.stderr.String())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	blob, err := os.ReadFile(s.outPath)
	if err != nil {
		return nil, fmt.Errorf("чтение результата кодирования: %w", err)
	}
	return blob, nil
}

// Abort tears down an interrupted encode: closes the frame stream, kills and
// reaps the encoder process, removes the temp files. No-op after Finish.
func (s *FFmpegSink) Abort() {
	if s.reaped {
		return
	}
	s.reaped = true

	s.stdin.Close()
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.cmd.Wait()
	os.RemoveAll(s.tmpDir)
}

// FrameCount returns how many frames were accepted.
func (s *FFmpegSink) FrameCount() int {
	return s.frames
}

// MemorySink buffers frame copies in memory; used by tests.
type MemorySink struct {
	Frames  []*image.RGBA
	Aborted bool
}

func (m *MemorySink) Push(img image.Image) error {
	bounds := img.Bounds()
	cp := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(cp, cp.Bounds(), img, bounds.Min, draw.Src)
	m.Frames = append(m.Frames, cp)
	return nil
}

func (m *MemorySink) Finish(ctx context.Context) ([]byte, error) {
	return nil, ctx.Err()
}

func (m *MemorySink) Abort() {
	m.Aborted = true
}
