package common

import (
	"math"
	"os"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var snowflakeNode *snowflake.Node

func init() {
	var err error
	snowflakeNode, err = snowflake.NewNode(int64(os.Getpid() % 1023))
	if err != nil {
		snowflakeNode, _ = snowflake.NewNode(1)
	}
}

// UUIDint64 returns a snowflake id suitable for database primary keys.
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// UUID returns a snowflake id in base36 string form.
func UUID() string {
	return snowflakeNode.Generate().Base36()
}

// Round2 rounds a monetary amount to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MoneyEqual reports whether two monetary amounts are equal within half a cent.
func MoneyEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}
