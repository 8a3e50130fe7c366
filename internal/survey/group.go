package survey

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// GroupBy selects the dimension rows are partitioned on.
type GroupBy string

const (
	ByCluster GroupBy = "cluster"
	ByModel   GroupBy = "model"
)

// ParseGroupBy accepts "cluster" or "model" (case-insensitive).
func ParseGroupBy(s string) (GroupBy, error) {
	switch GroupBy(strings.ToLower(strings.TrimSpace(s))) {
	case ByCluster:
		return ByCluster, nil
	case ByModel:
		return ByModel, nil
	}
	return "", fmt.Errorf("invalid group-by %q (use cluster|model)", s)
}

// GroupKey identifies a group: a cluster id or a model name depending on By.
type GroupKey struct {
	By      GroupBy
	Cluster int
	Model   string
}

// ID is the stable identifier used in output and cache keys.
func (k GroupKey) ID() string {
	if k.By == ByModel {
		return k.Model
	}
	return strconv.Itoa(k.Cluster)
}

// String is the display name: "C3" for clusters, the model name otherwise.
func (k GroupKey) String() string {
	if k.By == ByModel {
		return k.Model
	}
	return "C" + strconv.Itoa(k.Cluster)
}

func (k GroupKey) MarshalJSON() ([]byte, error) {
	if k.By == ByModel {
		return json.Marshal(k.Model)
	}
	return json.Marshal(k.Cluster)
}

func (k GroupKey) less(o GroupKey) bool {
	if k.By == ByModel {
		return k.Model < o.Model
	}
	return k.Cluster < o.Cluster
}

// KeyOf returns row's group key, false when the row carries no usable key.
func KeyOf(row Row, by GroupBy) (GroupKey, bool) {
	if by == ByModel {
		m := row.Model()
		if m == "" {
			return GroupKey{}, false
		}
		return GroupKey{By: ByModel, Model: m}, true
	}
	c, ok := row.Cluster()
	if !ok {
		return GroupKey{}, false
	}
	return GroupKey{By: ByCluster, Cluster: c}, true
}

// Group is the set of rows sharing a key.
type Group struct {
	Key  GroupKey
	Rows []Row
}

// Partition splits rows by key. Clusters sort numerically and models
// lexicographically; rows keep their input order inside a group.
func Partition(rows []Row, by GroupBy) []Group {
	idx := make(map[GroupKey]int)
	var groups []Group
	for _, r := range rows {
		k, ok := KeyOf(r, by)
		if !ok {
			continue
		}
		i, seen := idx[k]
		if !seen {
			i = len(groups)
			idx[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Rows = append(groups[i].Rows, r)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key.less(groups[j].Key) })
	return groups
}
