// Copyright (c) 2025 Beijing Volcano Engine Technology Co., Ltd. and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package search_app

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/volcengine/vesearch-go/log"
	"github.com/volcengine/vesearch-go/prompts"
	"github.com/volcengine/vesearch-go/proxy"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="{{.HTMLLang}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<form method="post" action="/">
  <input type="text" name="query" value="{{.Query}}" size="60" placeholder="{{.Placeholder}}">
  <select name="language">
    <option value="中文"{{if eq .Lang "zh"}} selected{{end}}>中文</option>
    <option value="English"{{if eq .Lang "en"}} selected{{end}}>English</option>
  </select>
  <input type="number" name="num_results" value="{{.NumResults}}" min="1" max="10">
  <button type="submit">{{.Submit}}</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{with .Response}}
<h2>{{$.SummaryHeading}}</h2>
<div class="summary">{{.Summary}}</div>
<h2>{{$.ResultsHeading}}</h2>
<ol>
{{range .Results}}  <li><a href="{{.URL}}">{{.Title}}</a><p>{{.Content}}</p></li>
{{end}}</ol>
{{end}}
</body>
</html>
`

type pageData struct {
	HTMLLang       string
	Lang           prompts.Language
	Title          string
	Placeholder    string
	Submit         string
	SummaryHeading string
	ResultsHeading string
	Query          string
	NumResults     int
	Error          string
	Response       *proxy.SearchResponse
}

func newPageData(lang prompts.Language) *pageData {
	return &pageData{
		HTMLLang:       prompts.Pick(lang, "zh-CN", "en"),
		Lang:           lang,
		Title:          prompts.Pick(lang, "网页搜索总结", "Web Search Summary"),
		Placeholder:    prompts.Pick(lang, "请输入搜索内容", "Please enter a search query"),
		Submit:         prompts.Pick(lang, "搜索", "Search"),
		SummaryHeading: prompts.Pick(lang, "搜索总结", "Search Summary"),
		ResultsHeading: prompts.Pick(lang, "搜索结果", "Search Results"),
		NumResults:     5,
	}
}

type pageHandler struct {
	service *proxy.Service
	tmpl    *template.Template
}

func newPageHandler(service *proxy.Service) (*pageHandler, error) {
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, err
	}
	return &pageHandler{service: service, tmpl: tmpl}, nil
}

func (h *pageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	label := r.Form.Get("language")
	lang := prompts.ParseLanguage(label)
	data := newPageData(lang)
	data.Query = r.Form.Get("query")
	if n, err := strconv.Atoi(r.Form.Get("num_results")); err == nil && n > 0 {
		data.NumResults = n
	}

	if r.Method == http.MethodPost {
		if strings.TrimSpace(data.Query) == "" {
			data.Error = data.Placeholder
		} else {
			resp, err := h.service.HandleSearch(r.Context(), &proxy.SearchRequest{
				Query:      data.Query,
				Language:   label,
				NumResults: proxy.NumResults(data.NumResults),
			})
			if err != nil {
				data.Error = prompts.Pick(lang, "搜索出错: ", "Error during search: ") + err.Error()
			} else {
				data.Response = resp
			}
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, data); err != nil {
		log.Warn("render search page failed", "error", err)
	}
}
