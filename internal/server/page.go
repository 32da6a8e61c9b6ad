package server

import (
	"bytes"
	"html/template"
	"io"
)

// pageTmpl composes the rendered fragments into the storefront page. The
// named sections are the mount points: a fragment that failed to render is
// dropped from the page rather than failing the whole response.
var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>MarvelMart</title>
  <link rel="stylesheet" href="/static/style.css">
</head>
<body>
<header>
  <h1>MarvelMart</h1>
  <nav>
    {{if .Greeting}}<span class="muted">Hi, {{.Greeting}}</span>{{end}}
    Cart: {{.CartCount}}
    <form method="post" action="/checkout" class="inline"><button id="cartBtn" class="btn">Place order</button></form>
  </nav>
</header>
{{if .Msg}}<div class="banner ok">{{.Msg}}</div>{{end}}
{{if .Err}}<div class="banner err">{{.Err}}</div>{{end}}
<main>
  <section id="product-grid">{{.Catalog}}</section>
  <section><h2>Wishlist</h2>{{.Wishlist}}</section>
  <section><h2>Orders</h2>{{.Orders}}</section>
  <section><h2>Reviews</h2>{{.Reviews}}</section>
  <section id="auth">
    <h2>Account</h2>
    <form id="register-form" method="post" action="/register">
      <input name="name" placeholder="Name">
      <input name="email" placeholder="Email">
      <input name="password" type="password" placeholder="Password">
      <input name="confirm" type="password" placeholder="Confirm password">
      <button class="btn">Register</button>
    </form>
    <form id="login-form" method="post" action="/login">
      <input name="email" placeholder="Email">
      <input name="password" type="password" placeholder="Password">
      <button class="btn">Login</button>
    </form>
  </section>
</main>
</body>
</html>
`))

// pageData carries the pre-rendered mount-point fragments plus the page
// chrome (flash messages, greeting).
type pageData struct {
	Greeting  string
	Msg       string
	Err       string
	CartCount template.HTML
	Catalog   template.HTML
	Wishlist  template.HTML
	Orders    template.HTML
	Reviews   template.HTML
}

// fragment runs one renderer into a buffer and returns the result as safe
// HTML. A render failure yields an empty fragment: the mount point is
// skipped, not fatal.
func fragment(renderFn func(io.Writer) error) template.HTML {
	var buf bytes.Buffer
	if err := renderFn(&buf); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}
