package main

import (
	"encoding/json"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/ironsheep/shape-detect-mcp/internal/config"
	"github.com/ironsheep/shape-detect-mcp/internal/detection"
	imgtools "github.com/ironsheep/shape-detect-mcp/internal/imaging"
	"github.com/ironsheep/shape-detect-mcp/internal/logging"
	"github.com/ironsheep/shape-detect-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg := config.Load()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("shape-detect-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			fmt.Printf("  Backend:    %s\n", detection.DefaultExtractor().Name())
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "detect":
			if err := runDetect(os.Args[2:], cfg); err != nil {
				fmt.Fprintf(os.Stderr, "detect: %v\n", err)
				os.Exit(1)
			}
			return
		case "annotate":
			if err := runAnnotate(os.Args[2:], cfg); err != nil {
				fmt.Fprintf(os.Stderr, "annotate: %v\n", err)
				os.Exit(1)
			}
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q (see --help)\n", os.Args[1])
			os.Exit(2)
		}
	}

	// Logging goes to stderr; stdout is for MCP protocol
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	log.Debug().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("commit", GitCommit).
		Msg("starting shape-detect-mcp")

	server.Version = Version
	srv := server.New(log, cfg)
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func printHelp() {
	fmt.Println("shape-detect-mcp - MCP server detecting pink and red shapes")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  shape-detect-mcp                              Serve MCP over stdin/stdout")
	fmt.Println("  shape-detect-mcp detect <image> [profile]     Print detected shapes as JSON")
	fmt.Println("  shape-detect-mcp annotate <image> <out> [profile] [style]")
	fmt.Println("                                                Write the annotated image")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Profiles: camera, photo, red")
	fmt.Println("Styles:   boxes, outlines")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=debug|info|warn|error   Log level (default info)\n", config.EnvLogLevel)
	fmt.Printf("  %s=auto|console|json      Log format (default auto)\n", config.EnvLogFormat)
	fmt.Printf("  %s=camera|photo|red         Default profile (default camera)\n", config.EnvProfile)
	fmt.Printf("  %s=N                     Decoded images kept in memory, 0 for no limit (default %d)\n", config.EnvCacheSize, config.DefaultCacheSize)
	fmt.Println()
	fmt.Println("Configure the server in your MCP client (e.g., Claude Desktop).")
}

// loadAndDetect loads path and runs detection with the profile named in
// args[0], or the configured default.
func loadAndDetect(path string, args []string, cfg *config.Config) (image.Image, *detection.ShapesResult, detection.Profile, error) {
	name := cfg.Profile
	if len(args) > 0 {
		name = args[0]
	}
	p, err := detection.LookupProfile(name)
	if err != nil {
		return nil, nil, p, err
	}

	img, err := imgtools.NewImageCache(1).Load(path)
	if err != nil {
		return nil, nil, p, err
	}
	result, err := detection.DetectShapes(img, p)
	return img, result, p, err
}

func runDetect(args []string, cfg *config.Config) error {
	if len(args) < 1 {
		return errors.New("usage: detect <image> [profile]")
	}
	_, result, _, err := loadAndDetect(args[0], args[1:], cfg)
	if err != nil {
		return err
	}
	for i := range result.Shapes {
		result.Shapes[i].Contour = nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func runAnnotate(args []string, cfg *config.Config) error {
	if len(args) < 2 {
		return errors.New("usage: annotate <image> <out> [profile] [style]")
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	out := args[1]
	img, result, p, err := loadAndDetect(args[0], args[2:], cfg)
	if err != nil {
		return err
	}

	var styleName string
	if len(args) > 3 {
		styleName = args[3]
	}
	style, err := detection.ParseStyle(styleName, p)
	if err != nil {
		return err
	}

	work, _ := detection.Rescale(img, p)
	if err := imaging.Save(detection.Annotate(work, result.Shapes, style), out); err != nil {
		return errors.Wrapf(err, "save %s", out)
	}

	log.Info().
		Str("out", out).
		Int("count", result.Count).
		Str("command", result.Command).
		Msg("annotated")
	return nil
}
