package support

import (
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// theErrorShouldMentionFileNotFound verifies file not found error.
func (testCtx *TestContext) theErrorShouldMentionFileNotFound() error {
	return testCtx.theErrorShouldMention("no such file")
}

// theErrorShouldMentionDegenerateSplit verifies the split planner rejected a class.
func (testCtx *TestContext) theErrorShouldMentionDegenerateSplit(code string) error {
	if err := testCtx.theErrorShouldMention("degenerate split"); err != nil {
		return err
	}
	return testCtx.theErrorShouldMention(code)
}

// theErrorShouldMentionMalformedMetadata verifies a card file was rejected.
func (testCtx *TestContext) theErrorShouldMentionMalformedMetadata() error {
	return testCtx.theErrorShouldMention("malformed class metadata")
}

// theErrorShouldSuggestAvailableCommands verifies command suggestion error.
func (testCtx *TestContext) theErrorShouldSuggestAvailableCommands() error {
	suggestionIndicators := []string{"available", "commands", "help", "usage"}
	for _, indicator := range suggestionIndicators {
		if strings.Contains(strings.ToLower(testCtx.LastOutput), indicator) {
			return nil
		}
	}
	return fmt.Errorf("error does not suggest available commands: %s", testCtx.LastOutput)
}

// theErrorShouldMentionUnknownFlag verifies unknown flag error.
func (testCtx *TestContext) theErrorShouldMentionUnknownFlag() error {
	return testCtx.theErrorShouldMention("unknown flag")
}

// theOutputShouldContainVersionInformation verifies version output.
func (testCtx *TestContext) theOutputShouldContainVersionInformation() error {
	for _, indicator := range []string{"cyberset version", "Commit:", "Date:"} {
		if !strings.Contains(testCtx.LastOutput, indicator) {
			return fmt.Errorf("output does not contain version information ('%s'): %s", indicator, testCtx.LastOutput)
		}
	}
	return nil
}

// theOutputShouldNotContainAPanic verifies that failures are reported as errors.
func (testCtx *TestContext) theOutputShouldNotContainAPanic() error {
	if strings.Contains(testCtx.LastOutput, "panic:") || strings.Contains(testCtx.LastOutput, "goroutine ") {
		return fmt.Errorf("command panicked:\n%s", testCtx.LastOutput)
	}
	return nil
}

// theExitCodeShouldBe verifies the exact exit status.
func (testCtx *TestContext) theExitCodeShouldBe(code int) error {
	if testCtx.LastExitCode != code {
		return fmt.Errorf("exit code is %d, expected %d\nOutput: %s", testCtx.LastExitCode, code, testCtx.LastOutput)
	}
	return nil
}

// RegisterErrorSteps registers all error handling step definitions.
func (testCtx *TestContext) RegisterErrorSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the error should mention a missing file$`, testCtx.theErrorShouldMentionFileNotFound)
	sc.Step(`^the error should mention a degenerate split for "([^"]*)"$`, testCtx.theErrorShouldMentionDegenerateSplit)
	sc.Step(`^the error should mention malformed metadata$`, testCtx.theErrorShouldMentionMalformedMetadata)
	sc.Step(`^the error should suggest available commands$`, testCtx.theErrorShouldSuggestAvailableCommands)
	sc.Step(`^the error should mention an unknown flag$`, testCtx.theErrorShouldMentionUnknownFlag)
	sc.Step(`^the output should contain version information$`, testCtx.theOutputShouldContainVersionInformation)
	sc.Step(`^the output should not contain a panic$`, testCtx.theOutputShouldNotContainAPanic)
	sc.Step(`^the exit code should be (\d+)$`, testCtx.theExitCodeShouldBe)
}
