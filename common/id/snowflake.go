package id

import (
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node with the given node ID.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a new globally unique issue identifier. Snowflake IDs are
// time-ordered, so identifiers sort in creation order across server instances.
func New() string {
	return strconv.FormatInt(node.Generate().Int64(), 10)
}
