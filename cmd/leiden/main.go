// Command leiden runs the partitioning engine over a weighted edge-list
// file and prints the resulting community assignment and quality.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/weftgraph/leiden/pkg/leiden"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: leiden <edge_list_file> [--hierarchical] [--cpm] [--resolution=1.0] [--seed=42]")
		fmt.Println()
		fmt.Println("edge_list_file: one \"u v weight\" triple per line")
		os.Exit(1)
	}

	edgeFile := os.Args[1]
	hierarchical := false
	useModularity := true
	resolution := 1.0
	var seed *uint64

	for _, arg := range os.Args[2:] {
		switch {
		case arg == "--hierarchical":
			hierarchical = true
		case arg == "--cpm":
			useModularity = false
		case strings.HasPrefix(arg, "--resolution="):
			v, err := strconv.ParseFloat(strings.TrimPrefix(arg, "--resolution="), 64)
			if err != nil {
				log.Fatalf("invalid --resolution: %v", err)
			}
			resolution = v
		case strings.HasPrefix(arg, "--seed="):
			v, err := strconv.ParseUint(strings.TrimPrefix(arg, "--seed="), 10, 64)
			if err != nil {
				log.Fatalf("invalid --seed: %v", err)
			}
			seed = &v
		default:
			log.Fatalf("unrecognized flag: %s", arg)
		}
	}

	edges, err := loadEdgeList(edgeFile)
	if err != nil {
		log.Fatalf("failed to load edge list: %v", err)
	}
	fmt.Printf("Loaded %d edges from %s\n", len(edges), edgeFile)

	cfg := leiden.NewConfig()
	cfg.Set("algorithm.resolution", resolution)
	cfg.Set("algorithm.use_modularity", useModularity)
	opts := cfg.Options()
	if seed != nil {
		opts.Seed = seed
	}

	if hierarchical {
		records, err := leiden.HierarchicalPartition(edges, opts)
		if err != nil {
			log.Fatalf("hierarchical partition failed: %v", err)
		}
		fmt.Printf("Produced %d hierarchy records\n", len(records))
		for _, r := range records {
			final := ""
			if r.IsFinalCluster {
				final = " (final)"
			}
			fmt.Printf("  level=%d label=%s community=%d%s\n", r.Level, r.Label, r.CommunityID, final)
		}
		return
	}

	result, err := leiden.Partition(edges, opts)
	if err != nil {
		log.Fatalf("partition failed: %v", err)
	}
	fmt.Printf("Quality: %.6f\n", result.Quality)
	fmt.Printf("Runtime: %d ms\n", result.Statistics.RuntimeMS)
	for label, comm := range result.Assignment {
		fmt.Printf("  %s -> community %d\n", label, comm)
	}
}

func loadEdgeList(path string) ([]leiden.Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var edges []leiden.Edge
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed line: %q", line)
		}
		weight := 1.0
		if len(fields) >= 3 {
			weight, err = strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("malformed weight in line %q: %w", line, err)
			}
		}
		edges = append(edges, leiden.Edge{U: fields[0], V: fields[1], Weight: weight})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return edges, nil
}
