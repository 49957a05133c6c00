// Command fat12 reads files and metadata from FAT12 volume images.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aligator/fat12"
	"github.com/aligator/fat12/internal/config"
	"github.com/aligator/fat12/internal/imagefile"
	"github.com/aligator/fat12/internal/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Exit codes, one per failing stage.
const (
	exitOK = iota
	exitUsage
	exitOpenImage
	exitBootSector
	exitFAT
	exitRootDirectory
	exitNotFound
	exitReadFile
)

var errUsage = errors.New("usage error")

var stageMessages = map[int]string{
	exitOpenImage:     "cannot open disk image",
	exitBootSector:    "cannot read boot sector",
	exitFAT:           "cannot read FAT",
	exitRootDirectory: "cannot read root directory",
	exitNotFound:      "cannot find file",
	exitReadFile:      "cannot read file",
}

// app holds everything the commands share.
type app struct {
	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer

	configPath string
	config     config.Config
	log        *zap.SugaredLogger
}

func main() {
	os.Exit(run(os.Args[1:], afero.NewOsFs(), os.Stdout, os.Stderr))
}

// run executes the command line and returns the exit code.
func run(args []string, fs afero.Fs, stdout, stderr io.Writer) int {
	a := &app{
		fs:     fs,
		stdout: stdout,
		stderr: stderr,
		config: config.Default(),
		log:    zap.NewNop().Sugar(),
	}

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	a.log.Sync()
	if err == nil {
		return exitOK
	}

	code := exitCode(err)
	if message, ok := stageMessages[code]; ok {
		fmt.Fprintf(stderr, "fat12: %s: %v\n", message, err)
	} else {
		fmt.Fprintf(stderr, "fat12: %v\n", err)
	}
	return code
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "fat12",
		Short: "Read files from FAT12 volume images",
		Long: `fat12 reads the root directory of FAT12 volume images such as
floppy disk images. Images may be gzip, zstd or xz compressed.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	// cobra reports flag errors before any command runs.
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	flags.String(config.FlagLogLevel, logger.DefaultLevel, "log level (debug, info, warn, error)")
	flags.Bool(config.FlagStrict, false, "reject images with an invalid boot sector")

	root.AddCommand(
		a.catCommand(),
		a.lsCommand(),
		a.infoCommand(),
		a.chainCommand(),
	)
	return root
}

// setup loads the configuration and creates the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.fs, a.configPath)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	a.config = cfg

	log, err := logger.New(a.stderr, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	a.log = log
	return nil
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %v\nSyntax: %s", errUsage, err, cmd.UseLine())
		}
		return nil
	}
}

// openVolume opens the image and loads its FAT and root directory.
// The returned function closes both.
func (a *app) openVolume(path string) (*fat12.Volume, func(), error) {
	image, err := imagefile.Open(a.fs, path)
	if err != nil {
		return nil, nil, err
	}
	a.log.Debugw("opened image", "path", path, "compression", image.Compression, "size", image.Size)

	opts := []fat12.Option{fat12.WithLogger(a.log)}
	if a.config.Strict {
		opts = append(opts, fat12.WithStrictChecks())
	}

	volume, err := fat12.New(image, opts...)
	if err != nil {
		image.Close()
		return nil, nil, err
	}

	return volume, func() {
		volume.Close()
		image.Close()
	}, nil
}

// lookupName converts the name argument into the raw 8.3 form.
// Names of exactly 11 bytes are taken as they are.
func lookupName(name string) ([11]byte, error) {
	if len(name) == 11 {
		var raw [11]byte
		copy(raw[:], name)
		return raw, nil
	}
	return fat12.ShortName(name)
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, errUsage):
		return exitUsage
	case errors.Is(err, imagefile.ErrOpenImage):
		return exitOpenImage
	case errors.Is(err, fat12.ErrReadBootSector), errors.Is(err, fat12.ErrInvalidGeometry):
		return exitBootSector
	case errors.Is(err, fat12.ErrReadFAT):
		return exitFAT
	case errors.Is(err, fat12.ErrReadRootDir):
		return exitRootDirectory
	case errors.Is(err, fat12.ErrNotFound), errors.Is(err, fat12.ErrInvalidName):
		return exitNotFound
	case errors.Is(err, fat12.ErrReadFile):
		return exitReadFile
	default:
		return exitUsage
	}
}
