package cmd

import (
	"github.com/spf13/cobra"

	"mediasync/internal/config"
	"mediasync/internal/logger"
	"mediasync/internal/nas"
)

func newCheckCmd() *cobra.Command {
	var (
		port         int
		passwordFile string
	)

	cmd := &cobra.Command{
		Use:   "check [user@]host:path",
		Short: "Verify the NAS target is reachable over SSH",
		Long: `check opens an SSH connection to the NAS using the password file (if
present) or local SSH keys and verifies the target directory exists. It
transfers nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := nas.ParseTarget(args[0])
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			if err := nas.Check(target, port, passwordFile); err != nil {
				return err
			}
			logger.Successf("%s reachable, %s exists", target.Host, target.Path)
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "SSH port on the NAS")
	cmd.Flags().StringVarP(&passwordFile, "password-file", "f", config.DefaultPasswordFile, "File holding the SSH password (ignored if absent)")
	return cmd
}
