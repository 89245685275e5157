// Package cleanup removes the build artifacts and Vite configuration that
// break Next.js deployments on Vercel.
package cleanup

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/deppfellow/surf-tools/internal/console"
	"github.com/rs/zerolog"
)

// Targets are removed in this order.
var Targets = []string{
	"vite.config.js",
	"vite.config.ts",
	"vite.config.mjs",
	"index.html",
	".next",
	"dist",
	"build",
	".vite",
	"vite.config.json",
}

// ConfigPattern matches Vite config variants missed by Targets.
const ConfigPattern = "vite.config.*"

// Outcome classifies a single removal attempt.
type Outcome string

const (
	DeletedFile      Outcome = "deleted-file"
	DeletedDirectory Outcome = "deleted-directory"
	DeletedConfig    Outcome = "deleted-config"
	NotFound         Outcome = "not-found"
	PermissionDenied Outcome = "permission-denied"
	Failed           Outcome = "error"
)

// Deleted reports whether the outcome removed something.
func (o Outcome) Deleted() bool {
	return o == DeletedFile || o == DeletedDirectory || o == DeletedConfig
}

// Action is the result of one removal attempt.
type Action struct {
	Item    string
	Outcome Outcome
	Err     error
}

// Message renders the action the way it is printed and summarised.
func (a Action) Message() string {
	switch a.Outcome {
	case DeletedFile:
		return "Deleted file: " + a.Item
	case DeletedDirectory:
		return "Deleted folder: " + a.Item
	case DeletedConfig:
		return "Deleted vite config: " + a.Item
	case NotFound:
		return "Not found: " + a.Item
	case PermissionDenied:
		return "Permission denied: " + a.Item
	default:
		return fmt.Sprintf("Error deleting %s: %v", a.Item, a.Err)
	}
}

func (a Action) marker() string {
	switch {
	case a.Outcome.Deleted():
		return console.Pass
	case a.Outcome == NotFound:
		return console.Skip
	default:
		return console.Fail
	}
}

// Cleaner removes Targets from one directory.
type Cleaner struct {
	dir    string
	out    *console.Printer
	logger zerolog.Logger
}

func New(dir string, out io.Writer, logger *zerolog.Logger) *Cleaner {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "cleanup").Str("dir", dir).Logger()
	}
	return &Cleaner{dir: dir, out: console.NewPrinter(out), logger: l}
}

// Run attempts every removal and returns the actions in processing order.
// Failures are recorded on the action; Run itself never fails.
func (c *Cleaner) Run() []Action {
	c.out.Printf("Cleaning up in directory: %s\n", c.dir)

	actions := make([]Action, 0, len(Targets))
	for _, item := range Targets {
		actions = append(actions, c.record(c.remove(item)))
	}

	for _, name := range c.configFiles() {
		actions = append(actions, c.record(c.removeConfig(name)))
	}

	return actions
}

// configFiles lists the entries of dir matching ConfigPattern, sorted by
// name. The pattern is matched against entry names only, so glob
// metacharacters in dir itself are never interpreted.
func (c *Cleaner) configFiles() []string {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to list vite configs")
		return nil
	}

	var names []string
	for _, entry := range entries {
		if ok, _ := filepath.Match(ConfigPattern, entry.Name()); ok {
			names = append(names, entry.Name())
		}
	}
	return names
}

func (c *Cleaner) remove(item string) Action {
	path := filepath.Join(c.dir, item)

	info, err := os.Lstat(path)
	if err != nil {
		return classify(item, err)
	}

	if info.IsDir() {
		if err := os.RemoveAll(path); err != nil {
			return classify(item, err)
		}
		return Action{Item: item, Outcome: DeletedDirectory}
	}

	if err := os.Remove(path); err != nil {
		return classify(item, err)
	}
	return Action{Item: item, Outcome: DeletedFile}
}

func (c *Cleaner) removeConfig(item string) Action {
	if err := os.Remove(filepath.Join(c.dir, item)); err != nil {
		return classify(item, err)
	}
	return Action{Item: item, Outcome: DeletedConfig}
}

func (c *Cleaner) record(a Action) Action {
	c.out.Printf("%s %s\n", a.marker(), a.Message())

	switch {
	case a.Outcome.Deleted():
		c.logger.Debug().Str("item", a.Item).Str("outcome", string(a.Outcome)).Msg("removed")
	case a.Outcome != NotFound:
		c.logger.Warn().Err(a.Err).Str("item", a.Item).Str("outcome", string(a.Outcome)).Msg("removal failed")
	}
	return a
}

func classify(item string, err error) Action {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Action{Item: item, Outcome: NotFound, Err: err}
	case errors.Is(err, fs.ErrPermission):
		return Action{Item: item, Outcome: PermissionDenied, Err: err}
	default:
		return Action{Item: item, Outcome: Failed, Err: err}
	}
}

// Deleted filters actions down to the successful removals, keeping order.
func Deleted(actions []Action) []Action {
	var deleted []Action
	for _, a := range actions {
		if a.Outcome.Deleted() {
			deleted = append(deleted, a)
		}
	}
	return deleted
}

// PrintSummary prints the deleted items and the git steps that publish them.
func (c *Cleaner) PrintSummary(actions []Action) {
	c.out.Println()
	c.out.Rule()

	deleted := Deleted(actions)
	if len(deleted) == 0 {
		c.out.Println("✨ No problematic files found - your project is clean!")
	} else {
		c.out.Println(console.Success + " CLEANUP COMPLETE!")
		c.out.Println("Deleted items:")
		for _, a := range deleted {
			c.out.Printf("  - %s\n", a.Message())
		}
	}

	c.out.Println("\n📝 Next steps:")
	c.out.Println("1. Run: git add .")
	c.out.Println("2. Run: git commit -m 'Remove problematic files'")
	c.out.Println("3. Run: git push origin main")
	c.out.Println("4. Check Vercel deployment")
}
