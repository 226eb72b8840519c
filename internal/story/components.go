package story

// Components groups node ids by weakly connected component, treating every
// edge as undirected. Groups follow node-list order of their first member and
// isolated nodes form their own group.
func Components(nodes []StoryNode, edges []Edge) [][]string {
	adj := make(map[string][]string)
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}

	visited := make(map[string]bool)
	var groups [][]string
	for _, n := range nodes {
		if visited[n.ID] {
			continue
		}
		component := []string{}
		dfs(n.ID, adj, visited, &component)
		groups = append(groups, component)
	}
	return groups
}

func dfs(u string, adj map[string][]string, visited map[string]bool, component *[]string) {
	visited[u] = true
	*component = append(*component, u)
	for _, v := range adj[u] {
		if !visited[v] {
			dfs(v, adj, visited, component)
		}
	}
}
