package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

const (
	kindGenesis    = "genesis"
	kindSettlement = "settlement"
)

// Blockchain is an append-only, hash-chained archive of settlements.
type Blockchain struct {
	mu     sync.RWMutex
	blocks []Block
	now    func() time.Time
	index  map[string]int
}

// NewBlockchain creates a chain holding only the genesis block.
// The genesis block has index 0 and previous hash "0".
func NewBlockchain() *Blockchain {
	return newBlockchain(time.Now)
}

func newBlockchain(now func() time.Time) *Blockchain {
	bc := &Blockchain{
		blocks: make([]Block, 0, 1),
		now:    now,
		index:  make(map[string]int),
	}

	genesis := Block{
		Index:     0,
		Timestamp: now().Unix(),
		PrevHash:  "0",
		Metadata:  Metadata{Kind: kindGenesis},
	}
	genesis.Hash = calculateHash(genesis)
	bc.blocks = append(bc.blocks, genesis)
	return bc
}

// Append archives a settlement. A session can be archived only once; the
// extra parameter can optionally carry context such as the settling reason.
func (bc *Blockchain) Append(s Settlement, extra ...map[string]string) (Block, error) {
	if s.SessionID == "" {
		return Block{}, fmt.Errorf("settlement without session id")
	}
	if !s.Result.Status.Terminal() {
		return Block{}, fmt.Errorf("session %s is not terminal: %s", s.SessionID, s.Result.Status)
	}

	bc.mu.Lock()
	defer bc.mu.Unlock()

	if _, dup := bc.index[s.SessionID]; dup {
		return Block{}, fmt.Errorf("session %s already archived", s.SessionID)
	}

	var extraMsg map[string]string
	if len(extra) > 0 {
		extraMsg = extra[0]
	}
	latest := bc.blocks[len(bc.blocks)-1]
	settlement := s
	settlement.Result.Breakdown = append(settlement.Result.Breakdown[:0:0], s.Result.Breakdown...)

	newBlock := Block{
		Index:      latest.Index + 1,
		Timestamp:  bc.now().Unix(),
		PrevHash:   latest.Hash,
		Settlement: &settlement,
		Metadata:   Metadata{Kind: kindSettlement, Extra: extraMsg},
	}
	newBlock.Hash = calculateHash(newBlock)

	if err := validateBlock(newBlock, latest); err != nil {
		return Block{}, fmt.Errorf("invalid block: %w", err)
	}

	bc.blocks = append(bc.blocks, newBlock)
	bc.index[s.SessionID] = newBlock.Index
	return newBlock, nil
}

// GetLatest returns the most recently added block.
func (bc *Blockchain) GetLatest() (Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if len(bc.blocks) == 0 {
		return Block{}, fmt.Errorf("blockchain is empty")
	}
	return bc.blocks[len(bc.blocks)-1], nil
}

// GetByIndex retrieves a block by its position in the chain.
func (bc *Blockchain) GetByIndex(index int) (Block, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if index < 0 || index >= len(bc.blocks) {
		return Block{}, fmt.Errorf("index out of range")
	}
	return bc.blocks[index], nil
}

// GetBySession returns the block that archived the given session.
func (bc *Blockchain) GetBySession(sessionID string) (Block, bool) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	i, ok := bc.index[sessionID]
	if !ok {
		return Block{}, false
	}
	return bc.blocks[i], true
}

// Len is the number of blocks, genesis included.
func (bc *Blockchain) Len() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return len(bc.blocks)
}

// Verify checks the genesis block and then every block's index continuity,
// previous hash linkage and own hash.
func (bc *Blockchain) Verify() error {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if len(bc.blocks) == 0 {
		return fmt.Errorf("empty blockchain")
	}
	if bc.blocks[0].PrevHash != "0" || bc.blocks[0].Hash != calculateHash(bc.blocks[0]) {
		return fmt.Errorf("invalid genesis block")
	}
	for i := 1; i < len(bc.blocks); i++ {
		if err := validateBlock(bc.blocks[i], bc.blocks[i-1]); err != nil {
			return fmt.Errorf("block %d invalid: %w", i, err)
		}
	}
	return nil
}

func validateBlock(current, previous Block) error {
	if current.Index != previous.Index+1 {
		return fmt.Errorf("invalid index: expected %d, got %d", previous.Index+1, current.Index)
	}
	if current.PrevHash != previous.Hash {
		return fmt.Errorf("invalid prev hash: expected %s, got %s", previous.Hash, current.PrevHash)
	}
	expectedHash := calculateHash(current)
	if current.Hash != expectedHash {
		return fmt.Errorf("invalid hash: expected %s, got %s", expectedHash, current.Hash)
	}
	if current.Settlement == nil {
		return fmt.Errorf("block carries no settlement")
	}
	return nil
}

// calculateHash is the SHA256 of the index, timestamp, previous hash and the
// JSON encoding of the settlement and metadata.
func calculateHash(block Block) string {
	settlementBytes, _ := json.Marshal(block.Settlement)
	metadataBytes, _ := json.Marshal(block.Metadata)

	data := fmt.Sprintf("%d%d%s%s%s",
		block.Index,
		block.Timestamp,
		block.PrevHash,
		string(settlementBytes),
		string(metadataBytes),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
