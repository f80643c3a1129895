package ai

// GraphSchema describes the Neo4j graph the question prompts target.
const GraphSchema = `
Node properties:
- Jugador {nombre: STRING, rol: STRING}
- EstadoFisico {cansancio: INTEGER, riesgoLesion: INTEGER, minuto: INTEGER}
- Recomendacion {accion: STRING, confianza: FLOAT}
- Partido {id: STRING, resultado: STRING, minuto: INTEGER}
- Rival {nombre: STRING, intensidad: STRING}
- JugadorRival {nombre: STRING}
Relationships:
- (:Jugador)-[:TIENE_ESTADO]->(:EstadoFisico)
- (:EstadoFisico)-[:GENERA_RECOMENDACION]->(:Recomendacion)
- (:Jugador)-[:JUEGA_EN]->(:Partido)
- (:Partido)-[:ENFRENTA]->(:Rival)
- (:Rival)-[:TIENE_JUGADOR_CLAVE]->(:JugadorRival)
`

// CypherPrompt turns a coach's question into a single Cypher query.
// Arguments: schema, question.
const CypherPrompt = `
Task: Generate a Cypher query for a Neo4j graph.

# Absolute rules (breaking these will cause query failure)
1. ALL relationships MUST use forward arrows (->), NEVER backward arrows (<-).
2. The ONLY valid relationship patterns are:
(Jugador)-[:TIENE_ESTADO]->(EstadoFisico)
(EstadoFisico)-[:GENERA_RECOMENDACION]->(Recomendacion)
(Jugador)-[:JUEGA_EN]->(Partido)
(Partido)-[:ENFRENTA]->(Rival)
(Rival)-[:TIENE_JUGADOR_CLAVE]->(JugadorRival)
3. FORBIDDEN patterns:
(EstadoFisico)<-[:GENERA_RECOMENDACION]-(Recomendacion) WRONG!
(Partido)<-[:JUEGA_EN]-(Jugador) WRONG!
4. Use Cypher only. Never write SQL (SELECT, FROM, JOIN, TABLE ...).
5. Never put CONTAINS inside a property map. Write {nombre: 'X'} for equality
   and WHERE n.nombre CONTAINS 'X' for substring matches.
6. For 'sustitucion' questions filter with: WHERE r.accion CONTAINS 'Sustitucion'

# Mandatory query templates (copy these exactly)
Template A, players to substitute:
MATCH (j:Jugador)-[:TIENE_ESTADO]->(e:EstadoFisico)-[:GENERA_RECOMENDACION]->(r:Recomendacion)
WHERE r.accion CONTAINS 'Sustitucion'
RETURN j.nombre

Template B, key players of a rival:
MATCH (r:Rival)-[:TIENE_JUGADOR_CLAVE]->(j:JugadorRival)
WHERE r.nombre CONTAINS 'Los Primos'
RETURN j.nombre

# Schema (for property reference only)
%s

# Question
%s

Return only the Cypher query using forward arrows (->), without explanations.
`

// AnswerPrompt writes the final answer from query rows.
// Arguments: question, context.
const AnswerPrompt = `
Eres un asistente de Director Técnico de fútbol.
Se te da una pregunta y el resultado de una consulta a la base de datos (Contexto).
Debes responder la pregunta en español usando UNICAMENTE la información del contexto.
Sé directo y conciso.
Si el contexto está vacío, di que no encontraste información.

Pregunta: %s
Contexto (Resultado de la consulta): %s
Respuesta:
`

// EntityPrompt asks for named entities in a Spanish scouting report.
// Arguments: report text.
const EntityPrompt = `
# Task Context
You are a named entity recognizer for Spanish football scouting reports written by amateur coaches.

# Detailed Task Description & Rules
- Find every mention of a person (player, coach, referee) and every organization (club, team, league).
- Also report locations (cities, stadiums) so they are not confused with people.
- Copy each entity exactly as written in the report, without quotes, accents fixed or words added.
- Do not invent entities that are not literally present in the text.
- Verbs, connectors and tactical words ("presionar", "recomendamos", "contraataque") are never entities.

# Labels
- PER: a person
- ORG: a club, team or organization
- LOC: a place
- MISC: anything else worth noting

# Report
%s

# Output Formatting
Return a JSON object with this structure:
{
  "entities": [
    {"text": "<exact text>", "label": "PER|ORG|LOC|MISC"}
  ]
}
`
