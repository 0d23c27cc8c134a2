package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mikey/inbox-radio/internal/adapters/elevenlabs"
	"github.com/mikey/inbox-radio/internal/factory"
)

func newProvidersCmd(root *rootOptions) *cobra.Command {
	var voices bool

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Show the active and available TTS providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.setup()
			if err != nil {
				return err
			}
			defer a.close()

			return a.container.Invoke(func(f *factory.TTSFactory) error {
				return printProviders(cmd.OutOrStdout(), f.Credentials(), voices)
			})
		},
	}

	cmd.Flags().BoolVar(&voices, "voices", false, "also list the premium voice catalog")
	return cmd
}

func printProviders(w io.Writer, creds factory.TTSCredentials, voices bool) error {
	active, err := factory.SelectTTSProvider(creds)
	if err != nil {
		fmt.Fprintln(w, "Active provider: none")
	} else {
		fmt.Fprintf(w, "Active provider: %s\n", active)
	}

	available := factory.AvailableTTSProviders(creds)
	fmt.Fprintf(w, "Available providers: %d\n", len(available))
	for _, kind := range available {
		fmt.Fprintf(w, "  - %s\n", kind)
	}

	if voices {
		fmt.Fprintln(w, "Premium voices:")
		for _, v := range elevenlabs.Voices() {
			marker := " "
			if v.ID == elevenlabs.DefaultVoiceID {
				marker = "*"
			}
			fmt.Fprintf(w, " %s %-8s %s  %s, %s accent, %s\n", marker, v.Name, v.ID, v.Gender, v.Accent, v.UseCase)
		}
	}
	return nil
}
