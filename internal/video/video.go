package video

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/ivlev/quiz2video/internal/compositor"
	"github.com/ivlev/quiz2video/internal/config"
	"github.com/ivlev/quiz2video/internal/effects"
)

// FrameSource yields the frames of one segment in order. The returned
// release func hands the image back once it has been written.
type FrameSource func(ctx context.Context, i int) (img *image.RGBA, release func(), err error)

type VideoEncoder interface {
	EncodeFrames(ctx context.Context, videoPath string, params config.SegmentParams, next FrameSource) error
	Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string) error
	MuxAudio(ctx context.Context, videoPath string, cues []compositor.Cue, fps, totalFrames int, finalPath string) error
}

type FFmpegEncoder struct{}

// EncodeFrames pipes params.Frames raw RGBA frames into one ffmpeg process.
func (e *FFmpegEncoder) EncodeFrames(
	ctx context.Context,
	videoPath string,
	params config.SegmentParams,
	next FrameSource,
) error {
	args := e.buildFFmpegArgs(videoPath, params)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	// Запись raw RGBA данных
	for i := 0; i < params.Frames; i++ {
		img, release, err := next(ctx, i)
		if err != nil {
			stdin.Close()
			cmd.Wait()
			return fmt.Errorf("segment %d frame %d: %w", params.SegmentIndex, i, err)
		}
		err = e.writeRawRGBA(stdin, img, params.Width, params.Height)
		if release != nil {
			release()
		}
		if err != nil {
			stdin.Close()
			cmd.Wait()
			return fmt.Errorf("write raw error: %w", err)
		}
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w", err)
	}

	return nil
}

func (e *FFmpegEncoder) buildFFmpegArgs(videoPath string, params config.SegmentParams) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
		"-frames:v", fmt.Sprintf("%d", params.Frames),
		"-pix_fmt", "yuv420p",
		"-c:v", params.Encoder,
	}
	args = append(args, qualityArgs(params.Encoder, params.Quality)...)

	args = append(args, videoPath)
	return args
}

// Качество в зависимости от энкодера
func qualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		bitrate := quality * 100
		return []string{"-b:v", fmt.Sprintf("%dk", bitrate)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

func (e *FFmpegEncoder) writeRawRGBA(w io.Writer, img *image.RGBA, width, height int) error {
	bounds := image.Rect(0, 0, width, height)
	if img.Rect != bounds || img.Stride != width*4 {
		dst := image.NewRGBA(bounds)
		draw.Draw(dst, bounds, img, img.Rect.Min, draw.Src)
		img = dst
	}
	_, err := w.Write(img.Pix)
	return err
}

// Concatenate joins already encoded segments without re-encoding.
func (e *FFmpegEncoder) Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string) error {
	if len(segmentPaths) == 0 {
		return fmt.Errorf("nothing to concatenate")
	}
	if len(segmentPaths) == 1 {
		return copyFile(segmentPaths[0], finalPath)
	}

	concatFilePath := filepath.Join(tmpDir, "inputs.txt")
	if err := writeConcatList(concatFilePath, segmentPaths); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-f", "concat", "-safe", "0", "-i", concatFilePath,
		"-c", "copy", finalPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat error: %v, output: %s", err, string(out))
	}
	return nil
}

func writeConcatList(path string, segmentPaths []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, p := range segmentPaths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(f, "file '%s'\n", absPath); err != nil {
			return err
		}
	}
	return nil
}

// MuxAudio mixes cues onto the silent video at videoPath. With no cues the
// video is copied unchanged.
func (e *FFmpegEncoder) MuxAudio(ctx context.Context, videoPath string, cues []compositor.Cue, fps, totalFrames int, finalPath string) error {
	args := MuxArgs(videoPath, cues, fps, totalFrames, finalPath)
	if args == nil {
		return copyFile(videoPath, finalPath)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg mux error: %v, output: %s", err, string(out))
	}
	return nil
}

// MuxArgs builds the ffmpeg command line for MuxAudio, or nil when there is
// no audio to add.
func MuxArgs(videoPath string, cues []compositor.Cue, fps, totalFrames int, finalPath string) []string {
	audio := effects.Mix(cues, fps, totalFrames)
	if audio == nil {
		return nil
	}

	video := ffmpeg.Input(videoPath).Video()
	return ffmpeg.Output([]*ffmpeg.Stream{video, audio}, finalPath, ffmpeg.KwArgs{
		"c:v": "copy",
		"c:a": "aac",
		"b:a": "192k",
	}).OverWriteOutput().GetArgs()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
