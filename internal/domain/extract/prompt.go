package extract

// extractionPrompt is the fixed instruction sent with every statement. The
// output contract is a bare JSON array so decoding stays trivial; nullable
// amounts mirror the transaction model.
const extractionPrompt = `You are a bank statement parser. Extract every transaction row from the
provided bank statement and return ONLY a minified JSON array, no markdown,
no commentary.

Each element must have exactly these keys:
{"date":string,"description":string,"reference":string,"debit":number|null,"credit":number|null,"balance":number|null}

RULES:
- date: ISO-8601 (YYYY-MM-DD). If the statement omits the year, infer it from
  the statement period.
- description: the transaction narrative as printed, cleaned of layout noise.
- reference: the bank's reference/cheque number for the row, or "" if none.
- debit/credit: positive numbers. A row is either a debit or a credit, never
  both; use null for the missing side.
- balance: the running balance after the row when printed, otherwise null.
- Preserve the statement's row order exactly.
- Skip headers, footers, carried-forward lines, page totals and summary rows.
- Return [] if the document contains no transaction rows.`
