package web

import "html/template"

var loginTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Admin Login - Volketswil Umfrage</title>
<style>
body { font-family: Arial, sans-serif; background: linear-gradient(to bottom right, #dcfce7, #dbeafe);
  min-height: 100vh; display: flex; align-items: center; justify-content: center; margin: 0; }
.login-box { background: white; padding: 40px; border-radius: 12px;
  box-shadow: 0 4px 6px rgba(0,0,0,0.1); max-width: 400px; width: 100%; }
h1 { color: #16a34a; margin-top: 0; }
input[type="password"] { width: 100%; padding: 12px; border: 1px solid #ddd;
  border-radius: 6px; font-size: 16px; box-sizing: border-box; }
button { width: 100%; padding: 12px; background: #16a34a; color: white; border: none;
  border-radius: 6px; font-size: 16px; cursor: pointer; margin-top: 10px; }
button:hover { background: #15803d; }
.error { color: #dc2626; margin-top: 10px; }
</style>
</head>
<body>
<div class="login-box">
<h1>Admin Login</h1>
<form method="POST">
<input type="password" name="password" placeholder="Admin-Passwort" required>
<button type="submit" name="login">Einloggen</button>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
</form>
</div>
</body>
</html>
`))

var dashboardTemplate = template.Must(template.New("dashboard").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Admin Dashboard - Volketswil Umfrage</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: Arial, sans-serif; background: #f3f4f6; padding: 20px; }
.header { background: white; padding: 20px; border-radius: 8px; margin-bottom: 20px;
  display: flex; justify-content: space-between; align-items: center; }
h1 { color: #16a34a; }
.logout-btn { padding: 10px 20px; background: #dc2626; color: white; text-decoration: none; border-radius: 6px; }
.stats-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(250px, 1fr));
  gap: 20px; margin-bottom: 20px; }
.stat-card { background: white; padding: 20px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
.stat-card h3 { color: #6b7280; font-size: 14px; margin-bottom: 10px; }
.stat-card .number { font-size: 36px; font-weight: bold; color: #16a34a; }
.section { background: white; padding: 20px; border-radius: 8px; margin-bottom: 20px; }
table { width: 100%; border-collapse: collapse; }
th, td { padding: 12px; text-align: left; border-bottom: 1px solid #e5e7eb; }
th { background: #f9fafb; font-weight: 600; }
.export-btn { padding: 10px 20px; background: #16a34a; color: white; border: none; border-radius: 6px;
  cursor: pointer; text-decoration: none; display: inline-block; margin-top: 10px; }
.export-btn:hover { background: #15803d; }
</style>
</head>
<body>
<div class="header">
<h1>📊 Admin Dashboard</h1>
<a href="?logout" class="logout-btn">Logout</a>
</div>

<div class="stats-grid">
<div class="stat-card"><h3>Teilnehmer</h3><div class="number">{{.ParticipantCount}}</div></div>
<div class="stat-card"><h3>Antworten gesamt</h3><div class="number">{{.ResponseCount}}</div></div>
<div class="stat-card"><h3>Durchschn. Antworten</h3><div class="number">{{.AvgResponses}}</div></div>
</div>

<div class="section">
<h2>Antwortverteilung</h2>
<table>
<tr><th>Bewertung</th><th>Anzahl</th><th>Prozent</th></tr>
{{range .Distribution}}<tr><td>{{valueLabel .Value}}</td><td>{{.Count}}</td><td>{{.Percent}}%</td></tr>
{{end}}</table>
</div>

<div class="section">
<h2>Top 10 wichtigste Themen</h2>
<table>
<tr><th>Frage</th><th>Anzahl (Wichtig/Sehr wichtig)</th></tr>
{{range .TopQuestions}}<tr><td>Frage #{{.QuestionID}}: {{.Text}}</td><td>{{.Count}}</td></tr>
{{end}}</table>
</div>

<div class="section">
<h2>Neueste Teilnehmer</h2>
<table>
<tr><th>Name</th><th>E-Mail</th><th>Zeitpunkt</th></tr>
{{range .RecentParticipants}}<tr><td>{{.Name}}</td><td>{{.Email}}</td><td>{{shortTime .SubmittedAt}}</td></tr>
{{end}}</table>
</div>

<div class="section">
<h2>Datenexport</h2>
<a href="/export?type=csv&token={{.Token}}" class="export-btn">📥 Als CSV exportieren</a>
<a href="/export?type=excel&token={{.Token}}" class="export-btn">📊 Als Excel exportieren</a>
<a href="/export?type=stats&token={{.Token}}" class="export-btn">📈 Statistik exportieren</a>
</div>
</body>
</html>
`))
