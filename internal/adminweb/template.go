// Package adminweb — template.go содержит HTML-шаблоны панели.
// Шаблоны вшиты в бинарь строками: панель — одна страница плюс логин,
// таскать файлы рядом с бинарём в Docker не хочется.
package adminweb

import "html/template"

var loginTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
  <meta charset="utf-8">
  <title>Адский Банк — вход</title>
  <style>
    body { font-family: sans-serif; background: #1a1a2e; color: #eee;
           display: flex; justify-content: center; align-items: center; height: 100vh; }
    form { background: #16213e; padding: 2em; border-radius: 8px; }
    input { padding: .5em; margin: .5em 0; width: 100%; box-sizing: border-box; }
    button { padding: .5em 2em; background: #e94560; color: white; border: none;
             border-radius: 4px; cursor: pointer; }
    .error { color: #e94560; }
  </style>
</head>
<body>
  <form method="post" action="/login">
    <h2>👹 Адский Банк</h2>
    {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
    <input type="password" name="password" placeholder="Пароль" autofocus>
    <button type="submit">Войти</button>
  </form>
</body>
</html>`))

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html lang="ru">
<head>
  <meta charset="utf-8">
  <title>Адский Банк — панель</title>
  <style>
    body { font-family: sans-serif; background: #1a1a2e; color: #eee; margin: 2em; }
    h1, h2 { color: #e94560; }
    table { border-collapse: collapse; margin: 1em 0; }
    th, td { border: 1px solid #333; padding: .4em .8em; text-align: left; }
    th { background: #16213e; }
    form.inline { display: inline-block; margin-right: 2em; vertical-align: top;
                  background: #16213e; padding: 1em; border-radius: 8px; }
    input { padding: .3em; margin: .2em 0; display: block; }
    button { padding: .4em 1em; background: #e94560; color: white; border: none;
             border-radius: 4px; cursor: pointer; }
    button.danger { background: #7a1f1f; }
    .msg { background: #0f3460; padding: .5em 1em; border-radius: 4px; }
    a { color: #e94560; }
  </style>
</head>
<body>
  <h1>👹 Адский Банк — панель администратора</h1>
  {{if .Message}}<p class="msg">{{.Message}}</p>{{end}}

  <h2>📊 Статистика</h2>
  <table>
    <tr><th>Пользователей</th><td>{{.Stats.TotalUsers}}</td></tr>
    <tr><th>Всего в обороте</th><td>{{.Stats.TotalBalance}}</td></tr>
    <tr><th>Транзакций</th><td>{{.Stats.TotalTransactions}}</td></tr>
    <tr><th>Призов в каталоге</th><td>{{.Stats.TotalPrizes}}</td></tr>
    <tr><th>Призов куплено</th><td>{{.Stats.TotalItemsOwned}}</td></tr>
  </table>
  <p><a href="/export.csv">⬇ Экспорт пользователей (CSV)</a></p>

  <h2>🏆 NFT Рейтинг</h2>
  {{if .Ranking}}
  <table>
    <tr><th>#</th><th>Пользователь</th><th>NFT</th><th>Коллекция</th><th>Стоимость</th></tr>
    {{range $i, $row := .Ranking}}
    <tr>
      <td>{{inc $i}}</td>
      <td>@{{$row.Username}}</td>
      <td>{{$row.Count}}</td>
      <td>{{$row.Items}}</td>
      <td>{{$row.TotalCost}}</td>
    </tr>
    {{end}}
  </table>
  {{else}}<p>NFT-призы пока никто не купил.</p>{{end}}

  <h2>⚙️ Операции</h2>
  <form class="inline" method="post" action="/prizes">
    <h3>Добавить приз</h3>
    <input name="name" placeholder="Название" required>
    <input name="cost" type="number" placeholder="Цена" required>
    <input name="description" placeholder="Описание">
    <input name="stock" type="number" value="-1" title="-1 — без ограничений">
    <label><input type="checkbox" name="nft" style="display:inline"> NFT</label>
    <button type="submit">Добавить</button>
  </form>

  <form class="inline" method="post" action="/deposit">
    <h3>Начислить</h3>
    <input name="username" placeholder="username (без @)" required>
    <input name="amount" type="number" placeholder="Сумма" required>
    <button type="submit">Начислить</button>
  </form>

  <form class="inline" method="post" action="/users/delete">
    <h3>Удалить пользователя</h3>
    <input name="username" placeholder="username (без @)" required>
    <button class="danger" type="submit">Удалить</button>
  </form>

  <form class="inline" method="post" action="/users/reset"
        onsubmit="return confirm('Точно удалить ВСЕ счета?')">
    <h3>Сброс</h3>
    <button class="danger" type="submit">Удалить все счета</button>
  </form>
</body>
</html>`))
