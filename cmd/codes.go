package cmd

import (
	"context"
	"fmt"

	"github.com/pixelforge-games/studio-api/internal/web/deck/service"
	"github.com/pixelforge-games/studio-api/library/log"

	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"
)

var codesCMD = &cobra.Command{
	Use:   "codes",
	Short: "manage investor access codes",
	Args:  gcmd.NoExtraArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
}

var codesIssueCMD = &cobra.Command{
	Use:   "issue <investor-name>",
	Short: "issue a single-use access code",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		code, err := service.GateInstance.IssueCode(cmd.Context(), args[0])
		if err != nil {
			log.Logger.Panic("issue code", zap.Error(err))
		}

		fmt.Printf("%s\t%s\n", code.InvestorName, code.HashCode)
	},
}

var codesListCMD = &cobra.Command{
	Use:   "list",
	Short: "list issued access codes",
	Args:  gcmd.NoExtraArgs,
	Run: func(cmd *cobra.Command, args []string) {
		codes, err := service.GateInstance.ListCodes(cmd.Context())
		if err != nil {
			log.Logger.Panic("list codes", zap.Error(err))
		}

		for _, code := range codes {
			fmt.Printf("%s\t%s\tredeemed=%v\t%s\n",
				code.ID.Hex(), code.InvestorName,
				code.Redeemed, code.CreatedAt.Format("2006-01-02"))
		}
	},
}

var codesRevokeCMD = &cobra.Command{
	Use:   "revoke <code-id>",
	Short: "revoke an access code",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := service.GateInstance.RevokeCode(cmd.Context(), args[0]); err != nil {
			log.Logger.Panic("revoke code", zap.Error(err))
		}

		fmt.Println("revoked")
	},
}

func init() {
	codesCMD.AddCommand(codesIssueCMD, codesListCMD, codesRevokeCMD)
	rootCMD.AddCommand(codesCMD)
}
