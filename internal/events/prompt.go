package events

const eventPromptTemplate = `You are the narrator of a financial-literacy life simulation. Generate one realistic financial life event for a %d year old %s.

Current financial status:
- Monthly income: $%.0f
- Monthly expenses: $%.0f
- Net worth: $%.0f
- Children: %d
- Round %d of %d, market trend: %s

Create an event that:
1. Is age-appropriate
2. Offers 2 to 3 meaningful choices
3. Has educational value

Return strictly valid JSON with this structure and nothing else:
{
  "title": "Event Title",
  "description": "Event Description",
  "type": "market|personal|opportunity|crisis",
  "choices": [
    {
      "id": "c1",
      "label": "Choice Label",
      "description": "Description",
      "consequences": {
        "immediate": {"cash_micros": -1000000000},
        "recurring": {"passive_income_micros": 50000000}
      }
    }
  ],
  "educational_content": "Financial lesson"
}

All monetary fields are integers in micros (1 dollar = 1000000 micros).`
