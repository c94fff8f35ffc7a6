package render

const searchTemplate = `{{if .Items}}<div class="results-list">
{{range $i, $r := .Items}}<div class="result-item">
<h4>{{inc $i}}. {{if $r.URL}}<a href="{{$r.URL}}" target="_blank" rel="noopener">{{$r.Title}}</a>{{else}}{{$r.Title}}{{end}}</h4>
<p><strong>Area:</strong> {{$r.Area}}</p>
{{if $r.Level}}<p><strong>Level:</strong> {{$r.Level}}</p>
{{end}}<p><strong>Description:</strong> {{$r.Description}}</p>
<p><strong>Relevance:</strong> {{percent1 $r.Relevance}}</p>
</div>
{{end}}</div>{{else}}<p>{{.Empty}}</p>{{end}}`

const synthesisTemplate = `<h4>Agent Synthesis</h4>
<p><strong>{{.Summary}}</strong></p>
<p>{{.Recommendations}}</p>
{{if .NextSteps}}<p><strong>Next Steps:</strong></p>
<ul>
{{range .NextSteps}}<li>{{.}}</li>
{{end}}</ul>{{end}}`

const pocDetailsTemplate = `{{if .Recommendations}}<h4>Solution Recommendations</h4>
<ul>
{{range .Recommendations}}<li><strong>{{.Solution}}</strong> ({{percent0 .Relevance}} match) - {{.Why}}</li>
{{end}}</ul>
{{end}}{{if .RBAC}}<h4>RBAC Requirements</h4>
<pre>{{.RBAC}}</pre>
{{end}}{{if .DeploymentScript}}<h4>Deployment Script</h4>
{{code "bash" .DeploymentScript}}
{{end}}{{if .IaCTemplate}}<h4>Infrastructure as Code</h4>
<pre>{{.IaCTemplate}}</pre>
{{end}}{{if .ArchitectureSummary}}<h4>Architecture Summary</h4>
{{markdown .ArchitectureSummary}}
{{end}}{{if .SetupHours}}<p><strong>Estimated Setup Time:</strong> {{hours .SetupHours}} hours</p>
{{end}}{{if .CostEstimate}}<p><strong>Cost Estimate:</strong> {{.CostEstimate}}</p>
{{end}}`

const pocRawTemplate = `<pre>{{.JSON}}</pre>
{{if .Instructions}}<h4>Instructions</h4>
{{markdown .Instructions}}
{{end}}`

const historyTemplate = `<div class="history-list">
{{range $i, $p := .}}<div class="history-item">
<h4>{{inc $i}}. {{$p.Title}}</h4>
<p><strong>ID:</strong> <code>{{$p.ID}}</code></p>
<p><strong>Area:</strong> {{$p.Area}}</p>
{{if $p.Status}}<p><strong>Status:</strong> <span class="status-{{$p.Status}}">{{$p.Status}}</span></p>
{{end}}<p><strong>{{$p.TimeLabel}}:</strong> {{$p.Time}}</p>
</div>
{{end}}</div>`

const statusTemplate = `{{if .Raw}}<pre id="statusOutput">{{.Raw}}</pre>
{{end}}<table class="info-table">
<tr><td>API Endpoint</td><td id="apiEndpoint">{{.APIEndpoint}}</td></tr>
<tr><td>Environment</td><td id="environment">{{.Environment}}</td></tr>
{{if .AgentStatus}}<tr><td>Agent</td><td id="agentStatus">{{.AgentStatus}}</td></tr>
{{end}}<tr><td>Health</td>{{if .HealthError}}<td id="healthStatus" class="unhealthy">Unhealthy ({{.HealthError}})</td>{{else if .Healthy}}<td id="healthStatus" class="healthy">Healthy</td>{{else}}<td id="healthStatus" class="unhealthy">Unhealthy</td>{{end}}</tr>
</table>`

const chatTemplate = `<div class="chat-message chat-{{.Role}}"><div class="chat-content">{{.Content}}</div></div>`
