package model

// Chunk is a retrieval unit cut from a source document.
type Chunk struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type RetrievedChunk struct {
	Text  string  `json:"text"`
	Score float32 `json:"score"`
}

type ChatAnswer struct {
	Answer          string           `json:"answer"`
	RetrievedChunks []RetrievedChunk `json:"retrieved_chunks"`
}
