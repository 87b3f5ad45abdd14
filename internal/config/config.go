// Package config carga la configuración del servicio desde YAML con
// overrides por variables de entorno (SEARCHJOHN_*).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda "dev".
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr         string        `yaml:"addr"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"server"`

	Cluster struct {
		Name string `yaml:"name"`
		// Identidad de este nodo
		NodeID string `yaml:"node_id"`
		// host:port con el que los pares llegan a este nodo (y este nodo a sí
		// mismo durante el fan-out). Default: Server.Addr.
		AdvertiseAddr string `yaml:"advertise_addr"`
		// Conjunto estático de pares (NO incluye al nodo local).
		Peers []PeerConfig `yaml:"peers"`
		// Timeout por llamada durante el fan-out multi-nodo.
		FanoutTimeout time.Duration `yaml:"fanout_timeout"`
		// TTL del cache de node stats agregados.
		StatsCacheTTL time.Duration `yaml:"stats_cache_ttl"`
	} `yaml:"cluster"`

	Index struct {
		// Shards por índice. Fijo por índice una vez creado.
		NumShards int `yaml:"num_shards"`
		// Límite de tamaño de body para PUT de documentos.
		MaxBodyBytes int64 `yaml:"max_body_bytes"`
	} `yaml:"index"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// PeerConfig es un nodo par en la topología estática.
type PeerConfig struct {
	ID   string `yaml:"id"`
	Addr string `yaml:"addr"`
}

// Default devuelve una configuración con defaults razonables para un nodo
// single-node de desarrollo.
func Default() *Config {
	c := &Config{}
	c.App.Env = "dev"
	c.Server.Addr = ":9200"
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 30 * time.Second
	c.Cluster.Name = "searchjohn"
	c.Cluster.NodeID = "node-1"
	c.Cluster.FanoutTimeout = 5 * time.Second
	c.Cluster.StatsCacheTTL = 2 * time.Second
	c.Index.NumShards = 8
	c.Index.MaxBodyBytes = 1 << 20 // 1MB
	c.Log.Level = "info"
	return c
}

// Load lee el YAML de path (opcional: "" usa solo defaults+env) y aplica los
// overrides de entorno encima.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	c.applyEnv()

	if c.Cluster.AdvertiseAddr == "" {
		c.Cluster.AdvertiseAddr = c.Server.Addr
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// applyEnv pisa valores con SEARCHJOHN_*.
func (c *Config) applyEnv() {
	if v, ok := getEnvStr("SEARCHJOHN_ENV"); ok {
		c.App.Env = v
	}
	if v, ok := getEnvStr("SEARCHJOHN_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("SEARCHJOHN_CLUSTER_NAME"); ok {
		c.Cluster.Name = v
	}
	if v, ok := getEnvStr("SEARCHJOHN_NODE_ID"); ok {
		c.Cluster.NodeID = v
	}
	if v, ok := getEnvStr("SEARCHJOHN_ADVERTISE_ADDR"); ok {
		c.Cluster.AdvertiseAddr = v
	}
	// SEARCHJOHN_PEERS="n2=127.0.0.1:9201;n3=127.0.0.1:9202"
	if v, ok := getEnvStr("SEARCHJOHN_PEERS"); ok {
		c.Cluster.Peers = parsePeers(v)
	}
	if v, ok := getEnvInt("SEARCHJOHN_NUM_SHARDS"); ok {
		c.Index.NumShards = v
	}
	if v, ok := getEnvStr("SEARCHJOHN_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
}

// Validate chequea los valores críticos.
func (c *Config) Validate() error {
	if c.Cluster.Name == "" {
		return fmt.Errorf("cluster.name is required")
	}
	if c.Cluster.NodeID == "" {
		return fmt.Errorf("cluster.node_id is required")
	}
	if c.Index.NumShards <= 0 {
		return fmt.Errorf("index.num_shards must be > 0, got %d", c.Index.NumShards)
	}
	for _, p := range c.Cluster.Peers {
		if p.ID == "" || p.Addr == "" {
			return fmt.Errorf("cluster.peers entries need id and addr")
		}
	}
	return nil
}

// parsePeers parsea "id=addr;id=addr".
func parsePeers(s string) []PeerConfig {
	var peers []PeerConfig
	for _, it := range strings.Split(s, ";") {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		if i := strings.IndexRune(it, '='); i > 0 {
			id := strings.TrimSpace(it[:i])
			addr := strings.TrimSpace(it[i+1:])
			if id != "" && addr != "" {
				peers = append(peers, PeerConfig{ID: id, Addr: addr})
			}
		}
	}
	return peers
}

func getEnvStr(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	s, ok := getEnvStr(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
