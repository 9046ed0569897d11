package store

import (
	"context"
	"fmt"
)

// GetKnowledgeGraph loads the full threat relation network.
func (s *Store) GetKnowledgeGraph(ctx context.Context) (KnowledgeGraph, error) {
	var graph KnowledgeGraph

	rows, err := s.db.QueryContext(ctx,
		`SELECT node_id, label, type FROM knowledge_graph_nodes`)
	if err != nil {
		return KnowledgeGraph{}, fmt.Errorf("graph nodes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var node GraphNode
		if err := rows.Scan(&node.ID, &node.Label, &node.Type); err != nil {
			return KnowledgeGraph{}, fmt.Errorf("scan graph node: %w", err)
		}
		graph.Nodes = append(graph.Nodes, node)
	}
	if err := rows.Err(); err != nil {
		return KnowledgeGraph{}, fmt.Errorf("graph nodes: %w", err)
	}

	edgeRows, err := s.db.QueryContext(ctx,
		`SELECT source_id, target_id, relation FROM knowledge_graph_edges`)
	if err != nil {
		return KnowledgeGraph{}, fmt.Errorf("graph edges: %w", err)
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var edge GraphEdge
		if err := edgeRows.Scan(&edge.SourceID, &edge.TargetID, &edge.Relation); err != nil {
			return KnowledgeGraph{}, fmt.Errorf("scan graph edge: %w", err)
		}
		graph.Edges = append(graph.Edges, edge)
	}
	if err := edgeRows.Err(); err != nil {
		return KnowledgeGraph{}, fmt.Errorf("graph edges: %w", err)
	}

	return graph, nil
}

// ListOsintQueries returns stored OSINT queries, newest first.
func (s *Store) ListOsintQueries(ctx context.Context) ([]OsintQuery, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, tool, result_count, run_at
		FROM osint_queries
		ORDER BY run_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list osint queries: %w", err)
	}
	defer rows.Close()

	var queries []OsintQuery
	for rows.Next() {
		var q OsintQuery
		if err := rows.Scan(&q.ID, &q.Query, &q.Tool, &q.ResultCount, &q.RunAt); err != nil {
			return nil, fmt.Errorf("scan osint query: %w", err)
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list osint queries: %w", err)
	}
	return queries, nil
}
