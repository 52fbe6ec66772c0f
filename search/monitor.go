package search

import "github.com/kodeks/mevzu/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results
// during search.
type SearchMonitor interface {
	Start(query string)
	AfterLexicalSearch(candidates []core.Candidate)
	AfterSemanticSearch(candidates []core.Candidate)
	SemanticUnavailable(reason string)
	HybridHit(result *core.SearchResult)
	LexicalHit(result *core.SearchResult)
	SemanticHit(result *core.SearchResult)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterLexicalSearch(_ []core.Candidate)  {}
func (n *noopMonitor) AfterSemanticSearch(_ []core.Candidate) {}
func (n *noopMonitor) SemanticUnavailable(_ string)           {}
func (n *noopMonitor) HybridHit(_ *core.SearchResult)         {}
func (n *noopMonitor) LexicalHit(_ *core.SearchResult)        {}
func (n *noopMonitor) SemanticHit(_ *core.SearchResult)       {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)          {}
