package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte, headers map[string]string) (int, []byte, error) {
	u := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, u, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

// versionQS arma el query string de versión para operaciones condicionales.
func versionQS(version int64) string {
	if version <= 0 {
		return ""
	}
	return fmt.Sprintf("?version=%d", version)
}

// groupQS agrega group_shard_failures=false cuando se pide el detalle por shard.
func groupQS(noGroup bool) string {
	if noGroup {
		return "?group_shard_failures=false"
	}
	return ""
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		baseURL = envOr("SEARCHJOHN_URL", "http://localhost:9200")
		out     = envOr("SEARCHJOHN_OUT", "text")
	)

	root := &cobra.Command{
		Use:   "searchjohn",
		Short: "CLI para operar un cluster searchjohn",
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del nodo (env SEARCHJOHN_URL)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{HTTP: &http.Client{Timeout: 30 * time.Second}}
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cl.BaseURL = baseURL
		cl.OutFormat = out
	}

	// ─── índices ───

	indexCmd := &cobra.Command{Use: "index", Short: "Gestión de índices"}

	var createShards int
	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Crea un índice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body []byte
			if createShards > 0 {
				body = []byte(fmt.Sprintf(`{"num_shards":%d}`, createShards))
			}
			status, b, err := cl.do("PUT", "/v1/indices/"+url.PathEscape(args[0]), body, nil)
			if err != nil {
				return err
			}
			cl.print(status, b)
			return nil
		},
	}
	createCmd.Flags().IntVar(&createShards, "shards", 0, "shards del índice (0: default del nodo)")

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Elimina un índice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, b, err := cl.do("DELETE", "/v1/indices/"+url.PathEscape(args[0]), nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, b)
			return nil
		},
	}

	closeCmd := &cobra.Command{
		Use:   "close <name>",
		Short: "Cierra un índice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, b, err := cl.do("POST", "/v1/indices/"+url.PathEscape(args[0])+"/_close", nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, b)
			return nil
		},
	}

	openCmd := &cobra.Command{
		Use:   "open <name>",
		Short: "Reabre un índice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, b, err := cl.do("POST", "/v1/indices/"+url.PathEscape(args[0])+"/_open", nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, b)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Lista los índices del nodo",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, b, err := cl.do("GET", "/v1/indices", nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, b)
			return nil
		},
	}

	var noGroup bool
	refreshCmd := &cobra.Command{
		Use:   "refresh <name>",
		Short: "Refresca todos los shards y muestra el header _shards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, b, err := cl.do("POST", "/v1/indices/"+url.PathEscape(args[0])+"/_refresh"+groupQS(noGroup), nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, b)
			return nil
		},
	}
	refreshCmd.Flags().BoolVar(&noGroup, "no-group", false, "no agrupar fallos de shard por causa")

	flushCmd := &cobra.Command{
		Use:   "flush <name>",
		Short: "Drena las escrituras pendientes de todos los shards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, b, err := cl.do("POST", "/v1/indices/"+url.PathEscape(args[0])+"/_flush", nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, b)
			return nil
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats <name>",
		Short: "Stats por shard del índice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, b, err := cl.do("GET", "/v1/indices/"+url.PathEscape(args[0])+"/_stats", nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, b)
			return nil
		},
	}

	var searchSize int
	var searchOperator string
	searchCmd := &cobra.Command{
		Use:   "search <name> [query]",
		Short: "Busca documentos (sin query: match-all)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qs := url.Values{}
			if len(args) == 2 {
				qs.Set("q", args[1])
			}
			if searchSize > 0 {
				qs.Set("size", fmt.Sprintf("%d", searchSize))
			}
			if searchOperator != "" {
				qs.Set("default_operator", searchOperator)
			}
			path := "/v1/indices/" + url.PathEscape(args[0]) + "/_search"
			if enc := qs.Encode(); enc != "" {
				path += "?" + enc
			}
			status, b, err := cl.do("GET", path, nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, b)
			return nil
		},
	}
	searchCmd.Flags().IntVar(&searchSize, "size", 0, "máximo de hits (0: sin límite)")
	searchCmd.Flags().StringVar(&searchOperator, "operator", "", "operador default: AND|OR")

	indexCmd.AddCommand(createCmd, deleteCmd, closeCmd, openCmd, listCmd, refreshCmd, flushCmd, statsCmd, searchCmd)

	// ─── documentos ───

	docCmd := &cobra.Command{Use: "doc", Short: "Operaciones de documento"}

	var putVersion int64
	putCmd := &cobra.Command{
		Use:   "put <index> <id> <json>",
		Short: "Indexa un documento (con --version hace put condicional)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/v1/indices/" + url.PathEscape(args[0]) + "/docs/" + url.PathEscape(args[1]) + versionQS(putVersion)
			status, b, err := cl.do("PUT", path, []byte(args[2]), nil)
			if err != nil {
				return err
			}
			cl.print(status, b)
			return nil
		},
	}
	putCmd.Flags().Int64Var(&putVersion, "version", 0, "versión esperada para OCC (0: incondicional)")

	getCmd := &cobra.Command{
		Use:   "get <index> <id>",
		Short: "Trae un documento",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/v1/indices/" + url.PathEscape(args[0]) + "/docs/" + url.PathEscape(args[1])
			status, b, err := cl.do("GET", path, nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, b)
			return nil
		},
	}

	var delVersion int64
	delCmd := &cobra.Command{
		Use:   "delete <index> <id>",
		Short: "Borra un documento (con --version hace delete condicional)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/v1/indices/" + url.PathEscape(args[0]) + "/docs/" + url.PathEscape(args[1]) + versionQS(delVersion)
			status, b, err := cl.do("DELETE", path, nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, b)
			return nil
		},
	}
	delCmd.Flags().Int64Var(&delVersion, "version", 0, "versión esperada para OCC (0: incondicional)")

	docCmd.AddCommand(putCmd, getCmd, delCmd)

	// ─── cluster ───

	clusterCmd := &cobra.Command{Use: "cluster", Short: "Estado del cluster"}

	nodesCmd := &cobra.Command{
		Use:   "nodes",
		Short: "Lista los nodos de la topología",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, b, err := cl.do("GET", "/v1/cluster/nodes", nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, b)
			return nil
		},
	}

	clusterStatsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Stats agregadas de todos los nodos (envelope _nodes)",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, b, err := cl.do("GET", "/v1/cluster/nodes/stats", nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, b)
			return nil
		},
	}

	clusterCmd.AddCommand(nodesCmd, clusterStatsCmd)

	root.AddCommand(indexCmd, docCmd, clusterCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
