package domain

// DisplayChunk: 임베드 필드 하나에 해당하는 표시 단위. 한 항목은 절대 두 청크로 나뉘지 않는다.
type DisplayChunk struct {
	Label   string
	Content string
}

// ChunkSet: Paginator 결과.
type ChunkSet struct {
	Chunks    []DisplayChunk
	Truncated bool // 최대 청크 수에 도달해 일부 멤버가 빠졌는지 여부
	Dropped   int  // 빠진 멤버 수
	Clipped   int  // 단일 청크보다 길어서 잘린 항목 수
	Entries   int  // 배치된 항목 수
}

// IsEmpty 는 청크가 하나도 없는지 확인한다.
func (c ChunkSet) IsEmpty() bool {
	return len(c.Chunks) == 0
}
