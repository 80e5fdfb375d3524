package urlstate

import (
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func loanConfig() Config {
	return Config{
		DefaultPageSize: 20,
		MaxPageSize:     100,
		Filters: []ColumnFilterSpec{
			{ColumnID: "status", URLKey: "status", Kind: KindArray},
			{ColumnID: "borrower", URLKey: "borrower"},
			{
				ColumnID: "branchId",
				URLKey:   "branch",
				Deserialize: func(raw []string) (any, bool) {
					n, err := strconv.ParseInt(raw[0], 10, 64)
					return n, err == nil
				},
				Serialize: func(v any) []string {
					return []string{strconv.FormatInt(v.(int64), 10)}
				},
			},
		},
		GlobalFilter: GlobalFilterConfig{Enabled: true},
	}
}

func TestRead_Defaults(t *testing.T) {
	state := Read(url.Values{}, loanConfig())
	assert.Equal(t, 1, state.Page)
	assert.Equal(t, 20, state.PageSize)
	assert.Empty(t, state.Sort)
	assert.Empty(t, state.ColumnFilters)
	assert.Empty(t, state.GlobalFilter)
}

func TestRead_MalformedFallsBack(t *testing.T) {
	q, err := url.ParseQuery("page=abc&pageSize=-5&branch=x1&sort=:desc")
	require.NoError(t, err)

	state := Read(q, loanConfig())
	assert.Equal(t, 1, state.Page)
	assert.Equal(t, 20, state.PageSize)
	assert.Empty(t, state.Sort)
	_, ok := state.Filter("branchId")
	assert.False(t, ok, "无法解析的筛选值应被丢弃")
}

func TestRead_ParsesAllParts(t *testing.T) {
	q, err := url.ParseQuery("page=3&pageSize=50&sort=principal:desc,issuedAt&status=active,locked&status=closed&borrower=%20Ann%20&branch=7&search=btc&foo=bar")
	require.NoError(t, err)

	state := Read(q, loanConfig())
	assert.Equal(t, 3, state.Page)
	assert.Equal(t, 50, state.PageSize)
	assert.Equal(t, []SortColumn{{ColumnID: "principal", Direction: Desc}, {ColumnID: "issuedAt", Direction: Asc}}, state.Sort)
	assert.Equal(t, []string{"active", "locked", "closed"}, state.ColumnFilters["status"])
	assert.Equal(t, "Ann", state.ColumnFilters["borrower"])
	assert.Equal(t, int64(7), state.ColumnFilters["branchId"])
	assert.Equal(t, "btc", state.GlobalFilter)
}

func TestRead_PageSizeCapped(t *testing.T) {
	state := Read(url.Values{"pageSize": {"5000"}}, loanConfig())
	assert.Equal(t, 100, state.PageSize)
}

func TestRead_GlobalFilterDisabledByDefault(t *testing.T) {
	cfg := loanConfig()
	cfg.GlobalFilter = GlobalFilterConfig{}
	state := Read(url.Values{"search": {"btc"}}, cfg)
	assert.Empty(t, state.GlobalFilter)
}

func TestRead_DeserializePanicIsSwallowed(t *testing.T) {
	cfg := Config{Filters: []ColumnFilterSpec{{
		ColumnID:    "x",
		Deserialize: func([]string) (any, bool) { panic("boom") },
	}}}
	assert.NotPanics(t, func() {
		state := Read(url.Values{"x": {"1"}}, cfg)
		assert.Empty(t, state.ColumnFilters)
	})
}

func TestEncode_PreservesForeignKeys(t *testing.T) {
	cfg := loanConfig()
	base := url.Values{"tab": {"overview"}, "status": {"stale"}}
	state := TableViewState{
		Page:          2,
		PageSize:      50,
		Sort:          []SortColumn{{ColumnID: "principal", Direction: Desc}},
		ColumnFilters: map[string]any{"status": []string{"active"}, "branchId": int64(3)},
		GlobalFilter:  "eth",
	}

	q := Encode(state, cfg, base)
	assert.Equal(t, "overview", q.Get("tab"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "50", q.Get("pageSize"))
	assert.Equal(t, "principal:desc", q.Get("sort"))
	assert.Equal(t, "active", q.Get("status"))
	assert.Equal(t, "3", q.Get("branch"))
	assert.Equal(t, "eth", q.Get("search"))

	assert.Equal(t, state, Read(q, cfg))
}

// TestFilterRoundTrip_Property 属性测试：可表示的字符串与字符串数组筛选值往返不变
func TestFilterRoundTrip_Property(t *testing.T) {
	cfg := loanConfig()
	rapid.Check(t, func(rt *rapid.T) {
		statuses := rapid.SliceOfN(rapid.StringMatching(`[a-z0-9_]{1,12}`), 1, 6).Draw(rt, "statuses")
		borrower := rapid.StringMatching(`[A-Za-z0-9][A-Za-z0-9 ]{0,20}[A-Za-z0-9]`).Draw(rt, "borrower")
		foreign := rapid.StringMatching(`[a-z]{1,8}`).Draw(rt, "foreign")

		q := url.Values{"tab": {foreign}}
		q = WithColumnFilter(q, cfg, "status", statuses)
		q = WithColumnFilter(q, cfg, "borrower", borrower)

		state := Read(q, cfg)
		if got := state.ColumnFilters["status"]; !assert.ObjectsAreEqual(statuses, got) {
			rt.Fatalf("数组筛选往返不一致: %v != %v", statuses, got)
		}
		if got := state.ColumnFilters["borrower"]; got != borrower {
			rt.Fatalf("单值筛选往返不一致: %q != %q", borrower, got)
		}
		if q.Get("tab") != foreign {
			rt.Fatalf("无关参数被修改: %q", q.Get("tab"))
		}
	})
}

// TestRead_NeverPanics_Property 属性测试：任意输入不 panic 且页码/条数始终为正
func TestRead_NeverPanics_Property(t *testing.T) {
	cfg := loanConfig()
	rapid.Check(t, func(rt *rapid.T) {
		q := url.Values{
			"page":     {rapid.String().Draw(rt, "page")},
			"pageSize": {rapid.String().Draw(rt, "pageSize")},
			"sort":     {rapid.String().Draw(rt, "sort")},
			"status":   {rapid.String().Draw(rt, "status")},
			"branch":   {rapid.String().Draw(rt, "branch")},
		}
		state := Read(q, cfg)
		if state.Page < 1 || state.PageSize < 1 || state.PageSize > cfg.MaxPageSize {
			rt.Fatalf("非法状态: %+v", state)
		}
		for _, s := range state.Sort {
			if s.ColumnID == "" || strings.Contains(s.ColumnID, ",") {
				rt.Fatalf("非法排序列: %+v", s)
			}
		}
	})
}

func TestWithColumnFilter_ResetsPage(t *testing.T) {
	cfg := loanConfig()
	prev := url.Values{"page": {"4"}, "tab": {"x"}}

	q := WithColumnFilter(prev, cfg, "borrower", "ann")
	assert.Empty(t, q.Get("page"))
	assert.Equal(t, "x", q.Get("tab"))
	assert.Equal(t, "4", prev.Get("page"), "不能修改原参数")

	// 清空筛选
	q = WithColumnFilter(q, cfg, "borrower", "")
	_, ok := q["borrower"]
	assert.False(t, ok)

	// 未知列保持不变
	q2 := WithColumnFilter(prev, cfg, "unknown", "v")
	assert.Equal(t, prev, q2)
}

func TestWithSort_KeepsPage(t *testing.T) {
	cfg := loanConfig()
	q := WithSort(url.Values{"page": {"2"}}, cfg, []SortColumn{{ColumnID: "amount", Direction: Desc}})
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "amount:desc", q.Get("sort"))

	q = WithSort(q, cfg, nil)
	assert.Empty(t, q.Get("sort"))
}

func TestWithPageSize_ResetsPageOnChange(t *testing.T) {
	cfg := loanConfig()
	q := WithPageSize(url.Values{"page": {"3"}}, cfg, 50)
	assert.Empty(t, q.Get("page"))
	assert.Equal(t, "50", q.Get("pageSize"))

	same := WithPageSize(url.Values{"page": {"3"}, "pageSize": {"50"}}, cfg, 50)
	assert.Equal(t, "3", same.Get("page"))
}

func TestNavigation_LiteralAndUpdater(t *testing.T) {
	prev := url.Values{"a": {"1"}}

	literal := Navigation{Search: url.Values{"b": {"2"}}}
	assert.Equal(t, url.Values{"b": {"2"}}, literal.Apply(prev))

	updater := Navigation{Update: func(p url.Values) url.Values {
		p.Set("c", "3")
		return p
	}}
	assert.Equal(t, url.Values{"a": {"1"}, "c": {"3"}}, updater.Apply(prev))
	assert.Equal(t, url.Values{"a": {"1"}}, prev)
}
