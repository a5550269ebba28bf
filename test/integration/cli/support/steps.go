package support

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/MeKo-Tech/stipple/cmd/stipple/cmd"
	"github.com/MeKo-Tech/stipple/internal/sheet"
	"github.com/cucumber/godog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RegisterSteps wires every step definition into the scenario context.
func (testCtx *TestContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I run "([^"]*)"$`, testCtx.iRun)
	sc.Step(`^the command succeeds$`, testCtx.theCommandSucceeds)
	sc.Step(`^the command fails$`, testCtx.theCommandFails)
	sc.Step(`^the output contains "([^"]*)"$`, testCtx.theOutputContains)
	sc.Step(`^the error mentions "([^"]*)"$`, testCtx.theErrorMentions)
	sc.Step(`^the file "([^"]*)" exists$`, testCtx.theFileExists)
	sc.Step(`^the file "([^"]*)" is a (\d+)x(\d+) PNG$`, testCtx.theFileIsAPNG)
	sc.Step(`^a manifest "([^"]*)" containing:$`, testCtx.aManifestContaining)
	sc.Step(`^the PDF "([^"]*)" has (\d+) pages?$`, testCtx.thePDFHasPages)
}

// resetFlags restores all flags to their defaults so one scenario's flags
// do not leak into the next execution.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// splitArgs breaks a command line into arguments, honoring single quotes
// so payloads may contain spaces.
func splitArgs(line string) []string {
	var args []string
	var cur strings.Builder
	inQuote := false
	for _, r := range line {
		switch {
		case r == '\'':
			inQuote = !inQuote
		case r == ' ' && !inQuote:
			if cur.Len() > 0 {
				args = append(args, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		args = append(args, cur.String())
	}
	return args
}

func (testCtx *TestContext) iRun(command string) error {
	command = strings.ReplaceAll(command, "${TMP}", testCtx.TempDir)
	args := splitArgs(command)

	root := cmd.GetRootCommand()
	resetFlags(root)

	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	testCtx.LastCommand = command
	testCtx.LastError = root.Execute()
	testCtx.LastOutput = buf.String()
	return nil
}

func (testCtx *TestContext) theCommandSucceeds() error {
	if testCtx.LastError != nil {
		return fmt.Errorf("command %q failed: %v\noutput:\n%s",
			testCtx.LastCommand, testCtx.LastError, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theCommandFails() error {
	if testCtx.LastError == nil {
		return fmt.Errorf("command %q succeeded, expected failure\noutput:\n%s",
			testCtx.LastCommand, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theOutputContains(text string) error {
	text = strings.ReplaceAll(text, "${TMP}", testCtx.TempDir)
	if !strings.Contains(testCtx.LastOutput, text) {
		return fmt.Errorf("output does not contain %q:\n%s", text, testCtx.LastOutput)
	}
	return nil
}

func (testCtx *TestContext) theErrorMentions(text string) error {
	if testCtx.LastError == nil {
		return fmt.Errorf("command %q produced no error", testCtx.LastCommand)
	}
	if !strings.Contains(testCtx.LastError.Error(), text) {
		return fmt.Errorf("error %q does not mention %q", testCtx.LastError, text)
	}
	return nil
}

func (testCtx *TestContext) theFileExists(path string) error {
	path = testCtx.expandPath(path)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("expected file %s: %w", path, err)
	}
	return nil
}

func (testCtx *TestContext) theFileIsAPNG(path string, width, height int) error {
	path = testCtx.expandPath(path)
	f, err := os.Open(path) //nolint:gosec // G304: test-controlled path
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	img, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("%s is not a valid PNG: %w", path, err)
	}

	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return fmt.Errorf("%s is %dx%d, expected %dx%d", path, b.Dx(), b.Dy(), width, height)
	}
	return nil
}

func (testCtx *TestContext) aManifestContaining(path string, content *godog.DocString) error {
	path = testCtx.expandPath(path)
	return os.WriteFile(path, []byte(content.Content+"\n"), 0o600)
}

func (testCtx *TestContext) thePDFHasPages(path string, pages int) error {
	path = testCtx.expandPath(path)
	got, err := sheet.PageCount(path)
	if err != nil {
		return fmt.Errorf("failed to count pages in %s: %w", path, err)
	}
	if got != pages {
		return fmt.Errorf("%s has %d pages, expected %d", path, got, pages)
	}
	return nil
}
