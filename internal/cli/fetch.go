package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/forestclient/internal/http/request"
	"github.com/GriffinCanCode/forestclient/internal/http/response"
)

func newFetchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch URL",
		Short: "Send a request and print the normalized response",
		Args:  cobra.ExactArgs(1),
		RunE:  runFetch,
	}

	addRequestFlags(cmd)
	cmd.Flags().BoolP("include", "i", false, "Print status line and headers")
	cmd.Flags().Bool("inspect", false, "Print declared vs detected media type and charset")
	cmd.Flags().Bool("pretty", false, "Decode JSON/XML/YAML/TOML content and print it as indented JSON")
	cmd.Flags().Bool("download", false, "Mark the request as a file download (content is not decoded)")
	cmd.Flags().StringP("output", "o", "", "Write the raw body to a file instead of printing content")
	return cmd
}

func newDownloadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download URL PATH",
		Short: "Stream a response body into a file",
		Args:  cobra.ExactArgs(2),
		RunE:  runDownload,
	}
	addRequestFlags(cmd)
	return cmd
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("method", "X", "GET", "HTTP method")
	cmd.Flags().StringP("data", "d", "", "Request body")
	cmd.Flags().StringArrayP("header", "H", nil, "Extra header (repeatable, e.g., -H 'X-Custom: value')")
	cmd.Flags().StringArrayP("query", "q", nil, "Query parameter (repeatable, e.g., -q 'page=2')")
	cmd.Flags().String("encoding", "", "Force the response charset (e.g., ISO-8859-1)")
	cmd.Flags().Bool("gzip", false, "Request gzip and decompress the body")
}

// buildRequest reads the shared request flags
func buildRequest(cmd *cobra.Command, rawURL string) (*request.Request, error) {
	method, _ := cmd.Flags().GetString("method")
	data, _ := cmd.Flags().GetString("data")
	rawHeaders, _ := cmd.Flags().GetStringArray("header")
	rawQuery, _ := cmd.Flags().GetStringArray("query")
	encoding, _ := cmd.Flags().GetString("encoding")
	gzip, _ := cmd.Flags().GetBool("gzip")

	if data != "" && !cmd.Flags().Changed("method") {
		method = "POST"
	}

	req := request.New(method, rawURL).
		SetResponseEncoding(encoding).
		SetDecompressGzip(gzip)
	if data != "" {
		req.SetBody([]byte(data))
	}
	for _, h := range rawHeaders {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q (want 'Name: value')", h)
		}
		req.AddHeader(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	for _, q := range rawQuery {
		name, value, ok := strings.Cut(q, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid query parameter %q (want 'name=value')", q)
		}
		req.AddQuery(name, value)
	}
	return req, nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	include, _ := cmd.Flags().GetBool("include")
	inspect, _ := cmd.Flags().GetBool("inspect")
	pretty, _ := cmd.Flags().GetBool("pretty")
	download, _ := cmd.Flags().GetBool("download")
	outputPath, _ := cmd.Flags().GetString("output")

	req, err := buildRequest(cmd, args[0])
	if err != nil {
		return err
	}
	req.SetDownloadFile(download || outputPath != "")

	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	resp, err := env.client.Execute(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Close()

	out := cmd.OutOrStdout()
	if include {
		printHead(out, resp)
	}

	switch {
	case outputPath != "":
		n, err := saveBody(resp, outputPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d bytes to %s\n", n, outputPath)
	case inspect:
		if err := printInspection(out, resp); err != nil {
			return err
		}
	case pretty:
		if err := printPretty(out, resp); err != nil {
			return err
		}
	default:
		content, err := resp.ReadContent()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, content)
	}
	return nil
}

func runDownload(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(cmd, args[0])
	if err != nil {
		return err
	}

	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	result, err := env.client.Download(ctx, req, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bytes (%s, HTTP %d, %s)\n",
		result.Path, result.Size, result.ContentType, result.Status, result.Duration)
	return nil
}

func printHead(w io.Writer, resp *response.Response) {
	fmt.Fprintf(w, "HTTP %d %s\n", resp.StatusCode(), resp.ReasonPhrase())
	resp.Headers().Each(func(name, value string) {
		fmt.Fprintf(w, "%s: %s\n", name, value)
	})
	fmt.Fprintln(w)
}

func printInspection(w io.Writer, resp *response.Response) error {
	in, err := resp.Inspect()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "decision:          %s\n", in.Decision)
	fmt.Fprintf(w, "declared type:     %s\n", in.DeclaredType)
	fmt.Fprintf(w, "declared encoding: %s\n", in.DeclaredEncoding)
	fmt.Fprintf(w, "detected type:     %s\n", in.DetectedType)
	fmt.Fprintf(w, "detected encoding: %s\n", in.DetectedEncoding)
	fmt.Fprintf(w, "extension:         %s\n", in.Extension)
	return nil
}

func printPretty(w io.Writer, resp *response.Response) error {
	var v interface{}
	if err := resp.Decode(&v); err != nil {
		return err
	}
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func saveBody(resp *response.Response, path string) (int64, error) {
	body, err := resp.DecodedStream()
	if err != nil {
		return 0, err
	}
	defer body.Close()

	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
	}
	return n, err
}
