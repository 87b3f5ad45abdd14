package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dropDatabas3/searchjohn/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Addr != ":9200" {
		t.Fatalf("default addr=%q", c.Server.Addr)
	}
	if c.Index.NumShards != 8 {
		t.Fatalf("default num_shards=%d", c.Index.NumShards)
	}
	if c.Cluster.AdvertiseAddr != c.Server.Addr {
		t.Fatalf("advertise_addr should default to server addr")
	}
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
app:
  env: prod
server:
  addr: ":9300"
cluster:
  name: prod-search
  node_id: node-a
  peers:
    - id: node-b
      addr: "10.0.0.2:9300"
index:
  num_shards: 16
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SEARCHJOHN_NODE_ID", "node-override")
	t.Setenv("SEARCHJOHN_PEERS", "node-c=10.0.0.3:9300;node-d=10.0.0.4:9300")

	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.App.Env != "prod" || c.Server.Addr != ":9300" || c.Index.NumShards != 16 {
		t.Fatalf("yaml values not applied: %+v", c)
	}
	if c.Cluster.NodeID != "node-override" {
		t.Fatalf("env override lost: node_id=%q", c.Cluster.NodeID)
	}
	if len(c.Cluster.Peers) != 2 || c.Cluster.Peers[0].ID != "node-c" {
		t.Fatalf("env peers not parsed: %+v", c.Cluster.Peers)
	}
}

func TestLoad_InvalidShards(t *testing.T) {
	t.Setenv("SEARCHJOHN_NUM_SHARDS", "0")
	if _, err := config.Load(""); err == nil {
		t.Fatal("num_shards=0 should fail validation")
	}
}
