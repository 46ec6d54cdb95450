package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// flagBinding maps a configuration key to a command flag.
type flagBinding struct {
	key  string
	flag string
}

// bindFlags binds the flags of cmd to the global viper instance. Several
// commands share keys, so binding happens when a command runs rather than in
// init; otherwise the last registered command would own the key.
func bindFlags(cmd *cobra.Command, bindings []flagBinding) error {
	for _, b := range bindings {
		f := cmd.Flags().Lookup(b.flag)
		if f == nil {
			return fmt.Errorf("unknown flag %q for key %s", b.flag, b.key)
		}
		if err := viper.BindPFlag(b.key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", b.flag, err)
		}
	}
	return nil
}

var canvasBindings = []flagBinding{
	{"canvas.size", "canvas-size"},
	{"canvas.fill", "fill"},
}

func addCanvasFlags(cmd *cobra.Command) {
	cmd.Flags().Int("canvas-size", 128, "side length of the square output images")
	cmd.Flags().Int("fill", 0, "gray value (0-255) used for padding and exposed borders")
}

var splitBindings = []flagBinding{
	{"split.train", "train"},
	{"split.validation", "validation"},
	{"split.test", "test"},
}

func addSplitFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("train", 70, "train split percentage")
	cmd.Flags().Float64("validation", 20, "validation split percentage")
	cmd.Flags().Float64("test", 10, "test split percentage")
}

var sourceBindings = []flagBinding{
	{"source.card_file", "card-file"},
	{"source.class_prefix", "class-prefix"},
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("card-file", "card.txt", "name of the metadata file in each class directory")
	cmd.Flags().String("class-prefix", "", "required prefix of every class code")
}
