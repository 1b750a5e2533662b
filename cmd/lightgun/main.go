// Command lightgun connects to a Sinden-protocol light gun over serial,
// runs the post-connect start procedure, and feeds recorded camera
// frames through the vision pipeline, pushing the resulting cursor
// offsets and calibration updates back to the device.
//
// The camera frame source itself is out of scope for this driver: in
// place of a live capture device, -replay-dir points at a directory of raw frame dumps used to
// exercise the pipeline end to end.
//
// Usage:
//
//	go run ./cmd/lightgun -port /dev/ttyUSB0 -replay-dir ./frames
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/barncastle/SindenLib/internal/config"
	"github.com/barncastle/SindenLib/internal/protocol"
	"github.com/barncastle/SindenLib/internal/settings"
	"github.com/barncastle/SindenLib/internal/transport"
	"github.com/barncastle/SindenLib/internal/vision/blob"
	"github.com/barncastle/SindenLib/internal/vision/frame"
)

var (
	port        = flag.String("port", "/dev/ttyUSB0", "Serial port the device is attached to")
	configFile  = flag.String("config", "", "Path to JSON tuning configuration file (defaults to "+config.DefaultConfigPath+")")
	replayDir   = flag.String("replay-dir", "", "Directory of raw camera frame dumps to replay through the vision pipeline")
	loop        = flag.Bool("loop", false, "Loop replay playback when the directory is exhausted")
	frameDelay  = flag.Duration("frame-delay", 33*time.Millisecond, "Delay between replayed frames")
	versionFlag = flag.Bool("version", false, "Print version information and exit")
)

const version = "0.1.0"

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println("lightgun " + version)
		return
	}

	tuning, err := loadTuning(*configFile)
	if err != nil {
		log.Fatalf("lightgun: load tuning config: %v", err)
	}

	timing := protocol.Timing(tuning.Timing())
	engine := protocol.NewEngine(transport.OpenReal, timing)

	log.Printf("connecting to %s", *port)
	if err := engine.Connect(*port); err != nil {
		log.Fatalf("lightgun: connect: %v", err)
	}
	defer engine.Disconnect()

	if err := engine.StartProcedure(); err != nil {
		log.Fatalf("lightgun: start procedure: %v", err)
	}
	log.Printf("authenticated, firmware %s", engine.Info().FirmwareVersion)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *replayDir == "" {
		log.Printf("no -replay-dir given; connected and idle, waiting for shutdown signal")
		<-ctx.Done()
		return
	}

	vs := videoSettingsFromTuning(tuning)
	proc := frame.NewProcessor(&vs, engine)
	v := tuning.Video()
	proc.SetROIExpansion(v.ROIExpansionFactor)
	proc.SetMinBrightness(v.CornerBrightnessFloor)

	if err := runReplay(ctx, proc, *replayDir, *frameDelay, *loop); err != nil {
		log.Fatalf("lightgun: replay: %v", err)
	}
}

func loadTuning(path string) (*config.TuningConfig, error) {
	if path == "" {
		return config.MustLoadDefaultConfig(), nil
	}
	return config.LoadTuningConfig(path)
}

func videoSettingsFromTuning(t *config.TuningConfig) settings.VideoSettings {
	vs := settings.DefaultVideoSettings()
	v := t.Video()
	vs.FilterRadius = v.FilterRadius
	vs.JitterMoveThreshold = v.JitterMoveThreshold
	vs.UseAntiJitter = v.UseAntiJitter
	vs.YSightOffset = v.YSightOffset
	return vs
}

// runReplay feeds every frame in dir (in filename order) through proc,
// pausing delay between frames and optionally looping.
func runReplay(ctx context.Context, proc *frame.Processor, dir string, delay time.Duration, loopPlayback bool) error {
	files, err := sortedFramePaths(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no frame files found in %s", dir)
	}

	for {
		for _, path := range files {
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			img, err := loadFrameFile(path)
			if err != nil {
				log.Printf("lightgun: skip %s: %v", path, err)
				continue
			}
			if err := proc.ProcessFrame(img); err != nil {
				log.Printf("lightgun: process %s: %v", path, err)
			}
			time.Sleep(delay)
		}
		if !loopPlayback {
			return nil
		}
	}
}

func sortedFramePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read replay dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// frameFileHeaderSize is the length of a frame file's minimal 12-byte
// header: width, height, format (matching blob.PixelFormat), each a
// little-endian uint32, followed by the raw pixel bytes.
const frameFileHeaderSize = 12

func loadFrameFile(path string) (*blob.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < frameFileHeaderSize {
		return nil, fmt.Errorf("frame file too short for header")
	}

	width := le32(data[0:4])
	height := le32(data[4:8])
	format := blob.PixelFormat(le32(data[8:12]))

	pixels := data[frameFileHeaderSize:]
	return &blob.Image{
		Width:  width,
		Height: height,
		Stride: strideFor(width, format),
		Format: format,
		Data:   pixels,
	}, nil
}

func strideFor(width int, format blob.PixelFormat) int {
	switch format {
	case blob.Format24bpp:
		return width * 3
	case blob.Format32bpp:
		return width * 4
	default:
		return width
	}
}

func le32(b []byte) int {
	return int(b[0]) | int(b[1])<<8 | int(b[2])<<16 | int(b[3])<<24
}
