// terrainctl inspects heightmap terrains from the command line.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Faultbox/heightmap-terrain/internal/config"
	"github.com/Faultbox/heightmap-terrain/internal/export"
	"github.com/Faultbox/heightmap-terrain/internal/heightmap"
	"github.com/Faultbox/heightmap-terrain/internal/logger"
	"github.com/Faultbox/heightmap-terrain/pkg/terrain"
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	command := args[0]
	args = args[1:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args, stdout, stderr)
	case "query", "q":
		err = cmdQuery(args, stdout, stderr)
	case "export":
		err = cmdExport(args, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}

	logger.Sync()
	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `terrainctl - heightmap terrain utility

Usage:
  terrainctl <command> [options] <heightmap>

Commands:
  info <heightmap>                   Show grid, mesh and bounds information
  query <heightmap> <x> <z> [...]    Query surface height at world (x, z) pairs
  export [-o file.obj] <heightmap>   Export the mesh as Wavefront OBJ

Common options:
  -config <file>    YAML config providing terrain settings
  -scale <n>        Height scale in world units
  -split <mode>     quadrant or diagonal
  -normals <mode>   flat or smooth
  -debug            Debug logging to stderr

Examples:
  terrainctl info heightmap.png
  terrainctl query -split diagonal heightmap.png 10.5 -3.25
  terrainctl export -normals smooth -o terrain.obj heightmap.png`)
}

// terrainFlags are shared by every subcommand.
type terrainFlags struct {
	config  *string
	scale   *float64
	split   *string
	normals *string
	debug   *bool
}

func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *terrainFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs, &terrainFlags{
		config:  fs.String("config", "", "YAML config file"),
		scale:   fs.Float64("scale", 0, "Height scale in world units"),
		split:   fs.String("split", "", "Height query split: quadrant or diagonal"),
		normals: fs.String("normals", "", "Vertex normals: flat or smooth"),
		debug:   fs.Bool("debug", false, "Enable debug logging"),
	}
}

// load builds the terrain named by the first positional argument.
func (f *terrainFlags) load(fs *flag.FlagSet, stderr io.Writer) (*terrain.Terrain, error) {
	if fs.NArg() < 1 {
		fmt.Fprintf(stderr, "Usage: terrainctl %s [options] <heightmap>\n", fs.Name())
		return nil, errUsage
	}

	level := "warn"
	if *f.debug {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		return nil, err
	}

	cfg, err := config.LoadFile(*f.config)
	if err != nil {
		return nil, err
	}
	tc := cfg.Terrain
	tc.Heightmap = fs.Arg(0)
	if *f.scale > 0 {
		tc.HeightScale = float32(*f.scale)
	}
	if *f.split != "" {
		tc.Split = *f.split
	}
	if *f.normals != "" {
		tc.Normals = *f.normals
	}

	return heightmap.Build(tc)
}

func cmdInfo(args []string, stdout, stderr io.Writer) error {
	fs, tf := newFlagSet("info", stderr)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	t, err := tf.load(fs, stderr)
	if err != nil {
		return err
	}

	lo, hi := t.Grid().Range()
	b := t.Bounds()
	format := "uint32"
	if t.IndexFormat() == terrain.IndexUint16 {
		format = "uint16"
	}

	fmt.Fprintf(stdout, "Heightmap:  %s\n", fs.Arg(0))
	fmt.Fprintf(stdout, "Grid:       %d x %d\n", t.Width(), t.Depth())
	fmt.Fprintf(stdout, "Scale:      %g\n", t.Grid().HeightScale())
	fmt.Fprintf(stdout, "Elevation:  %g .. %g\n", lo, hi)
	fmt.Fprintf(stdout, "Vertices:   %d\n", t.VertexCount())
	fmt.Fprintf(stdout, "Indices:    %d (%s)\n", t.IndexCount(), format)
	fmt.Fprintf(stdout, "Triangles:  %d\n", t.TriangleCount())
	fmt.Fprintf(stdout, "Split:      %s\n", t.Split())
	fmt.Fprintf(stdout, "Normals:    %s\n", t.Normals())
	fmt.Fprintf(stdout, "Bounds:     (%g, %g, %g) .. (%g, %g, %g)\n",
		b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
	return nil
}

func cmdQuery(args []string, stdout, stderr io.Writer) error {
	fs, tf := newFlagSet("query", stderr)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	coords := fs.Args()
	if len(coords) < 3 || len(coords)%2 != 1 {
		fmt.Fprintln(stderr, "Usage: terrainctl query [options] <heightmap> <x> <z> [<x> <z> ...]")
		return errUsage
	}

	points := make([][2]float32, 0, len(coords)/2)
	for i := 1; i < len(coords); i += 2 {
		x, err := strconv.ParseFloat(coords[i], 32)
		if err != nil {
			return fmt.Errorf("x %q: %w", coords[i], err)
		}
		z, err := strconv.ParseFloat(coords[i+1], 32)
		if err != nil {
			return fmt.Errorf("z %q: %w", coords[i+1], err)
		}
		points = append(points, [2]float32{float32(x), float32(z)})
	}

	t, err := tf.load(fs, stderr)
	if err != nil {
		return err
	}

	for _, p := range points {
		s := t.Sample(p[0], p[1])
		status := "inside"
		if !s.InBounds {
			status = "outside"
		}
		fmt.Fprintf(stdout, "x=%g z=%g height=%g grid=(%g, %g) %s\n",
			p[0], p[1], s.Height, s.GridX, s.GridZ, status)
	}
	return nil
}

func cmdExport(args []string, stdout, stderr io.Writer) error {
	fs, tf := newFlagSet("export", stderr)
	output := fs.String("o", "terrain.obj", "Output OBJ file")
	world := fs.Bool("world", false, "Write world-space positions")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	t, err := tf.load(fs, stderr)
	if err != nil {
		return err
	}

	stats, err := export.WriteOBJFile(*output, t, export.OBJOptions{WorldSpace: *world})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s: %d vertices, %d triangles\n", *output, stats.Vertices, stats.Triangles)
	return nil
}
