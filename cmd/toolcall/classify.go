package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/skosovsky/toolcall"
	"github.com/skosovsky/toolcall/provider"
)

var errUnparsed = errors.New("reply looked like a tool call but could not be parsed")

func newClassifyCmd(a *app) *cobra.Command {
	var (
		providerName string
		decode       bool
		dispatch     bool
	)
	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Classify one model reply read from a file or stdin",
		Long: "Classify prints the verdict for one reply. With --decode the input is a raw\n" +
			"response body of the configured planner and is decoded first; --provider\n" +
			"names another backend and implies --decode. With --dispatch the extracted\n" +
			"tool calls are run against the built-in tools.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			reply := string(data)
			if decode || providerName != "" {
				name := a.cfg.PlannerName()
				if providerName != "" {
					if name, err = provider.ParseName(providerName); err != nil {
						return err
					}
				}
				if reply, err = provider.Decode(name, data, a.cfg.AnswerPrefix); err != nil {
					return err
				}
			}
			v := toolcall.NewClassifier(a.cfg.AnswerPrefix, a.logger).Classify(reply)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "verdict: %s\n", v.Kind)
			switch v.Kind {
			case toolcall.DirectAnswer:
				fmt.Fprintf(out, "answer: %s\n", v.Text)
			case toolcall.ToolCalls:
				for _, call := range v.Calls {
					fmt.Fprintf(out, "call %s: %s\n", call.ID, toolcall.FormatToolCall(call.Name, call.Args))
				}
			default:
				fmt.Fprintln(out, v.Annotated())
				if v.Err != nil {
					return fmt.Errorf("%w: %w", errUnparsed, v.Err)
				}
			}
			if dispatch && len(v.Calls) > 0 {
				return a.dispatch(cmd, v.Calls)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&providerName, "provider", "", "Decode input as a raw response of: anthropic, openai, ollama, tgi (overrides the configured planner)")
	cmd.Flags().BoolVar(&decode, "decode", false, "Decode input as a raw response of the configured planner")
	cmd.Flags().BoolVar(&dispatch, "dispatch", false, "Run the extracted tool calls")
	return cmd
}

func (a *app) dispatch(cmd *cobra.Command, calls []toolcall.ToolCall) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.reg.Shutdown(sctx)
	}()
	var failed []string
	for _, res := range a.reg.DispatchBatch(ctx, calls) {
		if res.Error != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "result %s: error (%s): %v\n", res.CallID, toolcall.DispatchKind(res.Error), res.Error)
			failed = append(failed, res.CallID)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "result %s: %v\n", res.CallID, res.Value)
	}
	if len(failed) > 0 {
		slices.Sort(failed)
		return fmt.Errorf("dispatch failed for %s", strings.Join(failed, ", "))
	}
	return nil
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading reply: %w", err)
	}
	return data, nil
}
