package discord

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
)

// chunkCollector: RequestGuildMembers 응답(GuildMembersChunk)을 nonce 별로 모은다.
type chunkCollector struct {
	mu      sync.Mutex
	waiters map[string]*chunkWaiter
	seq     atomic.Uint64
}

type chunkWaiter struct {
	members   []*discordgo.Member
	presences []*discordgo.Presence
	received  map[int]struct{}
	expected  int
	done      chan struct{}
}

func newChunkCollector() *chunkCollector {
	return &chunkCollector{waiters: make(map[string]*chunkWaiter)}
}

// register 는 새 nonce 를 발급하고 대기자를 등록한다.
func (c *chunkCollector) register() string {
	nonce := "gsb-" + strconv.FormatUint(c.seq.Add(1), 10)
	c.mu.Lock()
	c.waiters[nonce] = &chunkWaiter{received: make(map[int]struct{}), done: make(chan struct{})}
	c.mu.Unlock()
	return nonce
}

func (c *chunkCollector) cancel(nonce string) {
	c.mu.Lock()
	delete(c.waiters, nonce)
	c.mu.Unlock()
}

// handle: 모든 청크(ChunkIndex 0..ChunkCount-1)를 받으면 대기자를 깨운다.
func (c *chunkCollector) handle(chunk *discordgo.GuildMembersChunk) {
	if chunk == nil || chunk.Nonce == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.waiters[chunk.Nonce]
	if !ok {
		return
	}
	if _, dup := w.received[chunk.ChunkIndex]; dup {
		return
	}
	w.received[chunk.ChunkIndex] = struct{}{}
	w.members = append(w.members, chunk.Members...)
	w.presences = append(w.presences, chunk.Presences...)
	w.expected = max(chunk.ChunkCount, 1)

	if len(w.received) >= w.expected {
		close(w.done)
	}
}

// wait: 모든 청크가 도착하거나 ctx 가 끝날 때까지 기다린다. 반환 후 nonce 는 해제된다.
func (c *chunkCollector) wait(ctx context.Context, nonce string) ([]*discordgo.Member, []*discordgo.Presence, error) {
	c.mu.Lock()
	w, ok := c.waiters[nonce]
	c.mu.Unlock()
	if !ok {
		return nil, nil, fmt.Errorf("unknown member chunk nonce: %s", nonce)
	}
	defer c.cancel(nonce)

	select {
	case <-w.done:
		c.mu.Lock()
		defer c.mu.Unlock()
		return w.members, w.presences, nil
	case <-ctx.Done():
		c.mu.Lock()
		got, want := len(w.received), w.expected
		c.mu.Unlock()
		return nil, nil, fmt.Errorf("member chunks incomplete received=%d expected=%d: %w", got, want, ctx.Err())
	}
}
