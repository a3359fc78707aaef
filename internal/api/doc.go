// Package api exposes the word-learning state manager over HTTP. It
// translates requests into LearningService and CorpusCache calls and maps
// their errors onto status codes; it renders nothing itself.
package api
