package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	commonConfig "opsadmin/common/config"
	"opsadmin/common/database"
	"opsadmin/common/response"
	"opsadmin/common/utils"
	"opsadmin/internal/auth"
	"opsadmin/internal/config"
	"opsadmin/internal/model"
	"opsadmin/internal/svc"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testApp struct {
	app   *fiber.App
	db    *gorm.DB
	token string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := database.Open(&commonConfig.DatabaseConfig{Driver: "sqlite", Database: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := config.Default()
	cfg.Upload.Dir = t.TempDir()
	require.NoError(t, auth.InitSaToken(cfg))
	sctx := svc.Init(cfg, db, nil)
	_, err = sctx.Users.EnsureAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Password)
	require.NoError(t, err)

	app := fiber.New()
	Setup(app, sctx)
	ta := &testApp{app: app, db: db}

	var login struct {
		Code int `json:"code"`
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	resp := ta.do(t, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"admin123"}`)
	ta.decode(t, resp, &login)
	require.Equal(t, response.CodeSuccess, login.Code)
	require.NotEmpty(t, login.Data.Token)
	ta.token = login.Data.Token
	return ta
}

func (ta *testApp) do(t *testing.T, method, target, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if ta.token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+ta.token)
	}
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (ta *testApp) decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, utils.Unmarshal(data, out), string(data))
}

func TestRouter_RequiresLogin(t *testing.T) {
	ta := newTestApp(t)
	ta.token = ""
	resp := ta.do(t, http.MethodGet, "/api/resources", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_TableRedirectsPastLastPage(t *testing.T) {
	ta := newTestApp(t)
	for _, code := range []string{"B001", "B002", "B003"} {
		require.NoError(t, ta.db.Create(&model.Branch{Code: code, Name: code, Status: model.BranchActive}).Error)
	}

	resp := ta.do(t, http.MethodGet, "/api/resources/branches?page=4", "")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/api/resources/branches", resp.Header.Get(fiber.HeaderLocation), "越界页码跳转到第一页")

	resp = ta.do(t, http.MethodGet, "/api/resources/branches", "")
	var body struct {
		Code int `json:"code"`
		Data struct {
			Key   string `json:"key"`
			Table struct {
				Rows []map[string]any `json:"rows"`
			} `json:"table"`
		} `json:"data"`
	}
	ta.decode(t, resp, &body)
	assert.Equal(t, response.CodeSuccess, body.Code)
	assert.Equal(t, "branches", body.Data.Key)
	assert.Len(t, body.Data.Table.Rows, 3)

	resp = ta.do(t, http.MethodGet, "/api/resources/unknown", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRouter_SubmitValidationAndOperationLog(t *testing.T) {
	ta := newTestApp(t)

	var failed struct {
		Code int `json:"code"`
		Data struct {
			Errors map[string]string `json:"errors"`
		} `json:"data"`
	}
	resp := ta.do(t, http.MethodPost, "/api/resources/branches", `{"values":{"name":"总行"}}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	ta.decode(t, resp, &failed)
	assert.Equal(t, response.CodeValidation, failed.Code)
	assert.Contains(t, failed.Data.Errors, "code")

	var ok struct {
		Code int `json:"code"`
		Data struct {
			Record struct {
				ID   uint   `json:"id"`
				Code string `json:"code"`
			} `json:"record"`
		} `json:"data"`
	}
	resp = ta.do(t, http.MethodPost, "/api/resources/branches", `{"values":{"code":"B100","name":"总行"}}`)
	ta.decode(t, resp, &ok)
	require.Equal(t, response.CodeSuccess, ok.Code)
	assert.Equal(t, "B100", ok.Data.Record.Code)

	require.Eventually(t, func() bool {
		var logs []model.OperationLog
		if err := ta.db.Where("module = ?", "branches").Find(&logs).Error; err != nil {
			return false
		}
		if len(logs) != 2 {
			return false
		}
		for _, l := range logs {
			if l.TargetID == ok.Data.Record.ID && l.Status == 1 {
				return true
			}
		}
		return false
	}, 2*time.Second, 20*time.Millisecond)
}

func TestRouter_Options(t *testing.T) {
	ta := newTestApp(t)
	require.NoError(t, ta.db.Create(&model.Branch{Code: "B001", Name: "总行", Status: model.BranchActive}).Error)
	require.NoError(t, ta.db.Create(&model.Branch{Code: "C001", Name: "分行", Status: model.BranchActive}).Error)

	var body struct {
		Code int `json:"code"`
		Data struct {
			Options []struct {
				Label string `json:"label"`
			} `json:"options"`
		} `json:"data"`
	}
	resp := ta.do(t, http.MethodGet, "/api/options/branches?search=B0", "")
	ta.decode(t, resp, &body)
	require.Equal(t, response.CodeSuccess, body.Code)
	require.Len(t, body.Data.Options, 1)
	assert.Equal(t, "B001 总行", body.Data.Options[0].Label)

	resp = ta.do(t, http.MethodGet, "/api/options/withdrawals", "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRouter_DefaultTableViewSuppliesColumns(t *testing.T) {
	ta := newTestApp(t)

	var saved struct {
		Code int `json:"code"`
		Data struct {
			ID    uint   `json:"id"`
			Query string `json:"query"`
		} `json:"data"`
	}
	resp := ta.do(t, http.MethodPost, "/api/table-views",
		`{"tableKey":"branches","name":"精简","isDefault":true,"columns":["city"],"query":"page=3&status=closed&junk=1"}`)
	ta.decode(t, resp, &saved)
	require.Equal(t, response.CodeSuccess, saved.Code)
	assert.Equal(t, "status=closed", saved.Data.Query, "保存的查询串去掉页码与无关参数")

	var table struct {
		Data struct {
			Table struct {
				Columns []struct {
					ID string `json:"id"`
				} `json:"columns"`
			} `json:"table"`
		} `json:"data"`
	}
	resp = ta.do(t, http.MethodGet, "/api/resources/branches", "")
	ta.decode(t, resp, &table)
	ids := make([]string, 0)
	for _, c := range table.Data.Table.Columns {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"code", "name", "city", "status", "actions"}, ids)

	resp = ta.do(t, http.MethodDelete, "/api/table-views/"+strconv.Itoa(int(saved.Data.ID)), "")
	var del struct {
		Code int `json:"code"`
	}
	ta.decode(t, resp, &del)
	assert.NotEqual(t, response.CodeSuccess, del.Code, "默认视图不能删除")
}
